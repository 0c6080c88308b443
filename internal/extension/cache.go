package extension

import (
	"errors"
	"fmt"

	"github.com/asteroid-belt/semverql/internal/host"
	"github.com/asteroid-belt/semverql/internal/semver"
)

// Provenance records where a version argument came from, which decides who
// owns it once the function returns.
type Provenance int

const (
	// ExternallyOwned versions arrived as a handle; the caller never frees them.
	ExternallyOwned Provenance = iota
	// ContextCached versions were found in the call context's memo slot,
	// which keeps ownership.
	ContextCached
	// FreshlyParsed versions were parsed from text by this call and must be
	// handed to the memo slot by ReleaseVersionArg.
	FreshlyParsed
)

// String returns the provenance label used in metrics.
func (p Provenance) String() string {
	switch p {
	case ExternallyOwned:
		return "external"
	case ContextCached:
		return "cached"
	case FreshlyParsed:
		return "parsed"
	}
	return fmt.Sprintf("Provenance(%d)", int(p))
}

// cachedVersion is what a memo slot holds: the parsed version plus the exact
// text it came from, so a slot reused for a different value is not trusted.
type cachedVersion struct {
	source  string
	version *semver.Version
}

// VersionArg resolves argument at into a version. A version handle is used
// as is, then the memo slot for at is consulted, and only then is the text
// parsed. Every non-nil result must be passed to ReleaseVersionArg.
func (e *Extension) VersionArg(ctx host.Context, args []host.Value, at int) (*semver.Version, Provenance, error) {
	if at < 0 || at >= len(args) {
		return nil, 0, fmt.Errorf("%w: missing version argument %d", ErrArgument, at+1)
	}
	arg := args[at]

	if v, ok := host.PointerValue(arg, PointerTag); ok {
		if version, ok := v.(*semver.Version); ok && version != nil {
			e.rec.VersionLookup(ExternallyOwned.String())
			return version, ExternallyOwned, nil
		}
		return nil, 0, fmt.Errorf("%w: %s handle holds %T", ErrInternal, PointerTag, v)
	}

	if blob, ok := arg.([]byte); ok {
		version, err := decodeHandle(blob)
		switch {
		case err == nil:
			e.rec.VersionLookup(ExternallyOwned.String())
			return version, ExternallyOwned, nil
		case !errors.Is(err, host.ErrNotPointer):
			return nil, 0, fmt.Errorf("version argument %d: %w", at+1, err)
		}
	}

	text, ok := host.Text(arg)
	if !ok {
		return nil, 0, fmt.Errorf("%w: version argument %d must be text, got %s", ErrArgument, at+1, typeName(arg))
	}

	if cached, ok := ctx.AuxData(at).(*cachedVersion); ok && cached.source == text {
		e.rec.VersionLookup(ContextCached.String())
		return cached.version, ContextCached, nil
	}

	version, err := semver.Parse(text)
	if err != nil {
		return nil, 0, fmt.Errorf("version argument %d: %w", at+1, err)
	}
	e.rec.VersionParsed()
	e.rec.VersionLookup(FreshlyParsed.String())
	return &version, FreshlyParsed, nil
}

// ReleaseVersionArg completes a VersionArg call. Externally owned and context
// cached versions need nothing; a freshly parsed version moves into the memo
// slot for at, which destroys it when the context ends.
func (e *Extension) ReleaseVersionArg(ctx host.Context, at int, v *semver.Version, p Provenance) {
	if p != FreshlyParsed || v == nil {
		return
	}
	entry := &cachedVersion{source: v.String(), version: v}
	ctx.SetAuxData(at, entry, func(any) {
		entry.version = nil
		e.rec.HandleReleased()
	})
}

// EncodeHandle serializes a version handle for engines that can only pass
// blobs between functions.
func EncodeHandle(v *semver.Version) ([]byte, error) {
	return host.EncodePointer(host.Pointer{Tag: PointerTag, Value: v})
}

func decodeHandle(b []byte) (*semver.Version, error) {
	var v semver.Version
	if err := host.DecodePointer(b, PointerTag, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func typeName(v host.Value) string {
	switch v.(type) {
	case nil:
		return "NULL"
	case int64:
		return "integer"
	case float64:
		return "real"
	case string:
		return "text"
	case []byte:
		return "blob"
	case host.Pointer:
		return "pointer"
	}
	return fmt.Sprintf("%T", v)
}
