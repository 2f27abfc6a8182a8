// Package script runs popper modifiers written in JavaScript.
//
// A script either evaluates to a function or defines a global function
// named modify. The function is called once per modifier run with two
// arguments, the placement record and a read-only view of the engine
// options:
//
//	function modify(data, options) {
//	    if (data.placement.startsWith("top")) {
//	        data.offsets.popper.top -= options.offset;
//	    }
//	    data.styles["z-index"] = 10;
//	}
//
// The function may mutate data in place or return a replacement object.
// Changes to offsets.popper.top, offsets.popper.left and styles are copied
// back; everything else is read-only. Width and height stay fixed.
package script

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dop251/goja"

	"github.com/matzehuels/popper/pkg/errors"
	"github.com/matzehuels/popper/pkg/popper"
)

// DefaultTimeout bounds a single script invocation.
const DefaultTimeout = 100 * time.Millisecond

// EntryPoint is the global function looked up when a script does not
// evaluate to a function.
const EntryPoint = "modify"

// Script is a compiled JavaScript modifier. It is safe to share between
// engines; invocations are serialized.
type Script struct {
	name    string
	timeout time.Duration

	mu  sync.Mutex
	vm  *goja.Runtime
	fn  goja.Callable
	out *log.Logger
}

// Option configures a Script.
type Option func(*Script)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Script) { s.timeout = d }
}

// Compile compiles source into a script named name.
func Compile(name, source string, opts ...Option) (*Script, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "script name is empty")
	}
	prog, err := goja.Compile(name, source, false)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeScript, err, "compile %s", name)
	}

	s := &Script{name: name, timeout: DefaultTimeout, vm: goja.New()}
	for _, opt := range opts {
		opt(s)
	}
	s.registerConsole()

	v, err := s.run(func() (goja.Value, error) { return s.vm.RunProgram(prog) })
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeScript, err, "evaluate %s", name)
	}
	fn, ok := goja.AssertFunction(v)
	if !ok {
		fn, ok = goja.AssertFunction(s.vm.Get(EntryPoint))
	}
	if !ok {
		return nil, errors.New(errors.ErrCodeScript, "%s: script must evaluate to a function or define %s()", name, EntryPoint)
	}
	s.fn = fn
	return s, nil
}

// Load compiles the script at path. The modifier is named after the file
// without its extension.
func Load(path string, opts ...Option) (*Script, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "script %s", path)
		}
		return nil, fmt.Errorf("read script: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Compile(name, string(src), opts...)
}

// Name returns the modifier name.
func (s *Script) Name() string { return s.name }

// Modifier wraps the script as a custom popper modifier. Script errors are
// logged through the engine logger and leave the record unchanged.
func (s *Script) Modifier() popper.Modifier {
	return popper.Custom(s.name, func(e *popper.Engine, d *popper.Data) {
		if err := s.Apply(e.Options(), d, e.Logger()); err != nil {
			e.Logger().Warn("script modifier failed", "modifier", s.name, "err", err)
		}
	})
}

// Apply runs the script over d. On error d is left unchanged.
func (s *Script) Apply(opts popper.Options, d *popper.Data, logger *log.Logger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.out = logger

	data := exportData(d)
	v, err := s.run(func() (goja.Value, error) {
		return s.fn(goja.Undefined(), s.vm.ToValue(data), s.vm.ToValue(exportOptions(opts)))
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeScript, err, "run %s", s.name)
	}
	if v != nil && !goja.IsUndefined(v) && !goja.IsNull(v) {
		ret, ok := v.Export().(map[string]any)
		if !ok {
			return errors.New(errors.ErrCodeScript, "%s returned %s, want an object", s.name, v.ExportType())
		}
		data = ret
	}
	return importData(data, d)
}

// run executes fn with the interrupt timer armed. Panics raised by the
// runtime are converted to errors.
func (s *Script) run(fn func() (goja.Value, error)) (v goja.Value, err error) {
	if s.timeout > 0 {
		t := time.AfterFunc(s.timeout, func() { s.vm.Interrupt("timeout") })
		defer func() {
			t.Stop()
			s.vm.ClearInterrupt()
		}()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

func (s *Script) registerConsole() {
	console := s.vm.NewObject()
	logAt := func(level log.Level) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			if s.out == nil {
				return goja.Undefined()
			}
			parts := make([]string, len(call.Arguments))
			for i, a := range call.Arguments {
				parts[i] = a.String()
			}
			s.out.Log(level, strings.Join(parts, " "), "script", s.name)
			return goja.Undefined()
		}
	}
	_ = console.Set("log", logAt(log.DebugLevel))
	_ = console.Set("warn", logAt(log.WarnLevel))
	_ = console.Set("error", logAt(log.ErrorLevel))
	_ = s.vm.Set("console", console)
}
