// Package extension implements the semver SQL surface: scalar functions, the
// semver collation and the semver_requirements table source. It is written
// against the engine-neutral types in internal/host; internal/db binds it to
// a concrete SQLite driver.
package extension

import (
	"github.com/asteroid-belt/semverql/internal/host"
	"github.com/asteroid-belt/semverql/internal/telemetry"
)

// PointerTag is the type name attached to version handles produced by
// semver_version_pointer.
const PointerTag = "semver_version0"

// CollationName is the name the semver collation is registered under.
const CollationName = "semver"

// RequirementsModule is the name of the requirements table source.
const RequirementsModule = "semver_requirements"

// ScalarFunc is the body of a SQL scalar function.
type ScalarFunc func(ctx host.Context, args []host.Value) (host.Value, error)

// Function describes one registration: a name at one arity.
type Function struct {
	Name          string
	NArgs         int
	Deterministic bool
	Call          ScalarFunc
}

// Extension holds the state shared by every function of the surface.
type Extension struct {
	rec telemetry.Recorder
}

// New creates an Extension reporting to rec. A nil rec disables
// instrumentation.
func New(rec telemetry.Recorder) *Extension {
	if rec == nil {
		rec = telemetry.Noop()
	}
	return &Extension{rec: rec}
}

// Functions returns every scalar function registration, one entry per arity.
func (e *Extension) Functions() []Function {
	return []Function{
		{Name: "semver_version", NArgs: 0, Deterministic: true, Call: e.buildVersion},
		{Name: "semver_debug", NArgs: 0, Deterministic: true, Call: e.debug},
		{Name: "semver_version", NArgs: 3, Deterministic: true, Call: e.versionText},
		{Name: "semver_version", NArgs: 4, Deterministic: true, Call: e.versionText},
		{Name: "semver_version", NArgs: 5, Deterministic: true, Call: e.versionText},
		{Name: "semver_version_pointer", NArgs: 3, Deterministic: true, Call: e.versionPointer},
		{Name: "semver_version_pointer", NArgs: 4, Deterministic: true, Call: e.versionPointer},
		{Name: "semver_version_pointer", NArgs: 5, Deterministic: true, Call: e.versionPointer},
		{Name: "semver_matches", NArgs: 2, Deterministic: true, Call: e.matches},
		{Name: "semver_gt", NArgs: 2, Deterministic: true, Call: e.greaterThan},
	}
}

// Call invokes the function registered as name with len(args) arguments in a
// fresh host.Frame that is closed before returning.
func (e *Extension) Call(name string, args ...host.Value) (host.Value, error) {
	fn, ok := e.Lookup(name, len(args))
	if !ok {
		return nil, wrongArity(name, len(args))
	}
	frame := host.NewFrame()
	defer frame.Close()
	return fn.Call(frame, args)
}

// Lookup finds the registration for name at arity n.
func (e *Extension) Lookup(name string, n int) (Function, bool) {
	for _, fn := range e.Functions() {
		if fn.Name == name && fn.NArgs == n {
			return fn, true
		}
	}
	return Function{}, false
}
