package extension

import (
	"errors"
	"fmt"
	"strings"

	"github.com/asteroid-belt/semverql/internal/host"
	"github.com/asteroid-belt/semverql/internal/semver"
	"github.com/asteroid-belt/semverql/pkg/version"
)

// buildVersion implements semver_version(): the extension's own version.
// Builds without a semantic version report the raw ldflags value.
func (e *Extension) buildVersion(host.Context, []host.Value) (host.Value, error) {
	if v := version.Parsed(); v != nil {
		return "v" + v.String(), nil
	}
	return "v" + strings.TrimPrefix(version.Short(), "v"), nil
}

// debug implements semver_debug().
func (e *Extension) debug(host.Context, []host.Value) (host.Value, error) {
	return fmt.Sprintf("Version: v%s\nSource: %s\nBuilt: %s",
		strings.TrimPrefix(version.Short(), "v"),
		version.Commit,
		version.BuildDate,
	), nil
}

// versionText implements semver_version(major, minor, patch[, pre[, build]]).
func (e *Extension) versionText(_ host.Context, args []host.Value) (host.Value, error) {
	v, err := construct(args)
	if err != nil {
		return nil, err
	}
	return v.String(), nil
}

// versionPointer implements semver_version_pointer(...), returning a version
// handle that semver_matches and semver_gt accept in place of text.
func (e *Extension) versionPointer(_ host.Context, args []host.Value) (host.Value, error) {
	v, err := construct(args)
	if err != nil {
		return nil, err
	}
	return host.Pointer{Tag: PointerTag, Value: &v}, nil
}

// matches implements semver_matches(version, requirement).
func (e *Extension) matches(ctx host.Context, args []host.Value) (host.Value, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("%w: semver_matches expects a version and a requirement", ErrArgument)
	}
	reqText, ok := host.Text(args[1])
	if !ok {
		return nil, fmt.Errorf("%w: requirement must be text, got %s", ErrArgument, typeName(args[1]))
	}
	req, err := semver.ParseRequirement(reqText)
	if err != nil {
		return nil, fmt.Errorf("requirement: %w", err)
	}

	v, p, err := e.VersionArg(ctx, args, 0)
	if err != nil {
		return nil, err
	}
	defer e.ReleaseVersionArg(ctx, 0, v, p)

	return boolValue(req.Matches(*v)), nil
}

// greaterThan implements semver_gt(a, b).
func (e *Extension) greaterThan(ctx host.Context, args []host.Value) (host.Value, error) {
	a, pa, err := e.VersionArg(ctx, args, 0)
	if err != nil {
		return nil, err
	}
	defer e.ReleaseVersionArg(ctx, 0, a, pa)

	b, pb, err := e.VersionArg(ctx, args, 1)
	if err != nil {
		return nil, err
	}
	defer e.ReleaseVersionArg(ctx, 1, b, pb)

	return boolValue(a.GreaterThan(*b)), nil
}

// construct builds a version from positional arguments: three integers, then
// optional pre-release and build text where NULL or "" means none.
func construct(args []host.Value) (semver.Version, error) {
	if len(args) < 3 || len(args) > 5 {
		return semver.Version{}, fmt.Errorf("%w: expected 3 to 5 arguments, got %d", ErrArgument, len(args))
	}

	var nums [3]uint64
	for i, name := range []string{"major", "minor", "patch"} {
		if host.IsNull(args[i]) {
			return semver.Version{}, fmt.Errorf("%w: %s is NULL", ErrArgument, name)
		}
		n, err := host.Uint64(args[i])
		switch {
		case errors.Is(err, host.ErrOutOfRange):
			return semver.Version{}, fmt.Errorf("%w: %s: %v", ErrDomain, name, err)
		case err != nil:
			return semver.Version{}, fmt.Errorf("%w: %s must be an integer, got %s", ErrArgument, name, typeName(args[i]))
		}
		nums[i] = n
	}

	pre, err := optionalText(args, 3, "pre-release")
	if err != nil {
		return semver.Version{}, err
	}
	build, err := optionalText(args, 4, "build metadata")
	if err != nil {
		return semver.Version{}, err
	}

	v, err := semver.New(nums[0], nums[1], nums[2], pre, build)
	if err != nil {
		return semver.Version{}, fmt.Errorf("construct version: %w", err)
	}
	return v, nil
}

func optionalText(args []host.Value, at int, name string) (string, error) {
	if at >= len(args) || host.IsNull(args[at]) {
		return "", nil
	}
	switch v := args[at].(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	}
	return "", fmt.Errorf("%w: %s must be text, got %s", ErrArgument, name, typeName(args[at]))
}

func boolValue(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func wrongArity(name string, n int) error {
	return fmt.Errorf("%w: wrong number of arguments to function %s(): %d", ErrArgument, name, n)
}
