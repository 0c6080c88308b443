package db

import (
	"database/sql/driver"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"modernc.org/sqlite"
	"modernc.org/sqlite/vtab"

	"github.com/asteroid-belt/semverql/internal/extension"
	"github.com/asteroid-belt/semverql/internal/host"
	"github.com/asteroid-belt/semverql/internal/log"
)

// DriverName is the database/sql driver the extension is installed into.
const DriverName = "sqlite"

var (
	installOnce sync.Once
	installErr  error
	current     atomic.Pointer[binding]
)

// binding is the extension instance the installed driver hooks dispatch to.
type binding struct {
	ext       *extension.Extension
	overloads map[string]map[int]extension.Function
}

func newBinding(ext *extension.Extension) *binding {
	b := &binding{ext: ext, overloads: map[string]map[int]extension.Function{}}
	for _, fn := range ext.Functions() {
		if b.overloads[fn.Name] == nil {
			b.overloads[fn.Name] = map[int]extension.Function{}
		}
		b.overloads[fn.Name][fn.NArgs] = fn
	}
	return b
}

// Register installs the extension's functions, the semver collation and the
// semver_requirements module into the SQLite driver, and binds them to ext.
// The driver hooks are installed once per process; a later call rebinds them
// to its ext, so statements on every open connection, including ones opened
// earlier, report to the most recently registered instance. A nil ext binds
// an uninstrumented instance. It must run before connections are opened.
func Register(ext *extension.Extension) error {
	if ext == nil {
		ext = extension.New(nil)
	}
	b := newBinding(ext)
	installOnce.Do(func() {
		installErr = install(b)
	})
	if installErr != nil {
		return installErr
	}
	if prev := current.Swap(b); prev != nil && prev.ext != ext {
		log.Debugf("semver extension rebound to a new instance")
	}
	return nil
}

// registeredExtension returns the bound instance, or nil before Register.
func registeredExtension() *extension.Extension {
	if b := current.Load(); b != nil {
		return b.ext
	}
	return nil
}

func install(b *binding) error {
	// The driver keys functions by name alone, so each name is registered
	// once as variadic and dispatches on the argument count.
	names := make([]string, 0, len(b.overloads))
	for name := range b.overloads {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		overloads := b.overloads[name]
		deterministic := true
		for _, fn := range overloads {
			deterministic = deterministic && fn.Deterministic
		}
		if err := sqlite.RegisterFunction(name, &sqlite.FunctionImpl{
			NArgs:         -1,
			Deterministic: deterministic,
			Scalar:        scalar(name),
		}); err != nil {
			return fmt.Errorf("register function %s: %w", name, err)
		}
		log.Debugf("registered function %s (%d overloads)", name, len(overloads))
	}

	if err := sqlite.RegisterCollationUtf8(extension.CollationName, collate); err != nil {
		return fmt.Errorf("register collation %s: %w", extension.CollationName, err)
	}

	if err := vtab.RegisterModule(nil, extension.RequirementsModule, requirementsModule{}); err != nil {
		return fmt.Errorf("register module %s: %w", extension.RequirementsModule, err)
	}
	log.Debugf("registered collation %s and module %s", extension.CollationName, extension.RequirementsModule)
	return nil
}

func collate(a, b string) int {
	return current.Load().ext.CollateText(a, b)
}

// scalar adapts one function name to the driver. The overload is looked up
// in the current binding. Each call gets its own host.Frame, so memoized
// arguments live for exactly one invocation.
func scalar(name string) func(*sqlite.FunctionContext, []driver.Value) (driver.Value, error) {
	return func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
		fn, ok := current.Load().overloads[name][len(args)]
		if !ok {
			return nil, fmt.Errorf("%w: wrong number of arguments to function %s()", extension.ErrArgument, name)
		}

		hargs := make([]host.Value, len(args))
		for i, a := range args {
			hargs[i] = a
		}

		frame := host.NewFrame()
		defer frame.Close()

		res, err := fn.Call(frame, hargs)
		if err != nil {
			return nil, err
		}
		return toDriver(res)
	}
}

// toDriver converts a function result into something the driver can return.
// Pointers become tagged blobs.
func toDriver(v host.Value) (driver.Value, error) {
	switch x := v.(type) {
	case host.Pointer:
		b, err := host.EncodePointer(x)
		if err != nil {
			return nil, err
		}
		return b, nil
	case bool:
		if x {
			return int64(1), nil
		}
		return int64(0), nil
	}
	return v, nil
}
