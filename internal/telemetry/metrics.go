// Package telemetry provides in-process instrumentation via Prometheus.
package telemetry

import (
	"os"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "semverql"

// Recorder receives instrumentation events from the extension and the CLI.
type Recorder interface {
	VersionParsed()
	VersionLookup(provenance string)
	HandleReleased()
	CollationFallback()
	CommandExecuted(command string, failed bool)
}

// Metrics records events as Prometheus counters.
type Metrics struct {
	versionsParsed     prometheus.Counter
	versionLookups     *prometheus.CounterVec
	handlesReleased    prometheus.Counter
	collationFallbacks prometheus.Counter
	commands           *prometheus.CounterVec
}

// noopRecorder does nothing (for disabled instrumentation).
type noopRecorder struct{}

// IsEnabled returns true unless SEMVERQL_METRICS=false.
func IsEnabled() bool {
	return os.Getenv("SEMVERQL_METRICS") != "false"
}

// New returns a Recorder registered on reg, or a no-op recorder when reg is
// nil or instrumentation is disabled.
func New(reg prometheus.Registerer) Recorder {
	if reg == nil || !IsEnabled() {
		return noopRecorder{}
	}
	return NewMetrics(reg)
}

// Noop returns a Recorder that discards every event.
func Noop() Recorder {
	return noopRecorder{}
}

// NewMetrics creates the counters and registers them on reg. A nil reg
// leaves them unregistered. Registering twice on the same reg panics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		versionsParsed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "versions_parsed_total",
			Help:      "Version strings parsed by extension functions.",
		}),
		versionLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "version_lookups_total",
			Help:      "Version argument lookups by provenance.",
		}, []string{"provenance"}),
		handlesReleased: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handles_released_total",
			Help:      "Cached versions destroyed at the end of a call context.",
		}),
		collationFallbacks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collation_fallbacks_total",
			Help:      "Collation comparisons that hit an unparsable operand.",
		}),
		commands: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cli_commands_total",
			Help:      "CLI commands executed, by command and outcome.",
		}, []string{"command", "outcome"}),
	}
}

func (m *Metrics) VersionParsed() {
	m.versionsParsed.Inc()
}

// VersionLookup counts a version operand by where it came from.
func (m *Metrics) VersionLookup(provenance string) {
	m.versionLookups.WithLabelValues(provenance).Inc()
}

func (m *Metrics) HandleReleased() {
	m.handlesReleased.Inc()
}

func (m *Metrics) CollationFallback() {
	m.collationFallbacks.Inc()
}

// CommandExecuted counts a CLI command run.
func (m *Metrics) CommandExecuted(command string, failed bool) {
	outcome := "ok"
	if failed {
		outcome = "error"
	}
	m.commands.WithLabelValues(command, outcome).Inc()
}

func (noopRecorder) VersionParsed()               {}
func (noopRecorder) VersionLookup(string)         {}
func (noopRecorder) HandleReleased()              {}
func (noopRecorder) CollationFallback()           {}
func (noopRecorder) CommandExecuted(string, bool) {}

// Sample is one counter value read back from a registry.
type Sample struct {
	Name   string
	Labels string
	Value  float64
}

// Snapshot gathers every counter in g, sorted by name and labels.
func Snapshot(g prometheus.Gatherer) ([]Sample, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, err
	}

	var samples []Sample
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if m.GetCounter() == nil {
				continue
			}
			pairs := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				pairs = append(pairs, lp.GetName()+"="+lp.GetValue())
			}
			samples = append(samples, Sample{
				Name:   mf.GetName(),
				Labels: strings.Join(pairs, ","),
				Value:  m.GetCounter().GetValue(),
			})
		}
	}
	sort.Slice(samples, func(i, j int) bool {
		if samples[i].Name != samples[j].Name {
			return samples[i].Name < samples[j].Name
		}
		return samples[i].Labels < samples[j].Labels
	})
	return samples, nil
}
