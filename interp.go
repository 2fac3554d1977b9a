package tack

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/tacklang/tack/internal/ast"
	"github.com/tacklang/tack/internal/parser"
	"github.com/tacklang/tack/internal/types"
)

// Finder locates modules by fully-qualified dotted name. It is asked
// for a spec whenever a name is imported; returning (nil, nil) means
// the finder has no opinion and the next finder is consulted.
type Finder interface {
	FindSpec(fullname string) (*ModuleSpec, error)
}

// Loader produces the path and executable source for a found module.
type Loader interface {
	// Filename maps a fully-qualified name to the on-disk path it
	// loads from. Returns an error wrapping ErrModuleNotFound when the
	// path does not exist.
	Filename(fullname string) (string, error)

	// Source returns the source text to execute for a path. Paths that
	// do not reference a source file yield an empty module body.
	Source(path string) ([]byte, error)
}

// ModuleSpec is the ephemeral result of one resolution request.
type ModuleSpec struct {
	Name      string
	IsPackage bool
	Loader    Loader
}

// Interp is a Tack interpreter: a module registry plus an ordered
// finder chain. The registry is guarded for concurrent use; module
// execution itself is synchronous and re-entrant, nested imports
// recurse through the same resolve/locate/source contract.
type Interp struct {
	mu      sync.Mutex
	finders []Finder
	modules map[string]*Module
	logger  *slog.Logger
	types.Logger
}

// New returns an interpreter with an empty finder chain.
func New(opts ...Option) *Interp {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Interp{
		modules: make(map[string]*Module),
		logger:  cfg.logger,
		Logger:  types.Logger{L: cfg.logger},
	}
}

// AddFinder appends a finder to the interpreter's finder chain.
func (in *Interp) AddFinder(f Finder) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.finders = append(in.finders, f)
}

// RegisterExternal installs an ExternalFinder for the given namespace
// name and base directory. Sibling directories under baseDir become
// importable as "<name>.<dir>...", with their internal imports
// qualified on load. The namespace name itself is installed as an
// empty module so qualified names below it resolve without the finder
// having to answer for the bare prefix.
func (in *Interp) RegisterExternal(name, baseDir string, opts ...ExternalOption) *ExternalFinder {
	var cfg externalConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	f := newExternalFinder(name, baseDir, cfg.rewrite, componentLogger(in.logger, "finder"))
	in.AddFinder(f)
	in.installNamespace(name)

	in.Log(slog.LevelDebug, "external namespace registered",
		slog.String("namespace", name),
		slog.String("dir", baseDir),
		slog.Bool("rewrite", cfg.rewrite))
	return f
}

// installNamespace creates empty package modules for every segment of
// a (possibly dotted) namespace name, binding each to its parent.
func (in *Interp) installNamespace(name string) {
	in.mu.Lock()
	defer in.mu.Unlock()

	parts := strings.Split(name, ".")
	for i := range parts {
		qualified := strings.Join(parts[:i+1], ".")
		if _, ok := in.modules[qualified]; ok {
			continue
		}
		mod := NewModule(qualified)
		mod.IsPackage = true
		in.modules[qualified] = mod
		if i > 0 {
			in.modules[strings.Join(parts[:i], ".")].Set(parts[i], mod)
		}
	}
}

// Module returns an already-imported module from the registry.
func (in *Interp) Module(fullname string) (*Module, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	mod, ok := in.modules[fullname]
	return mod, ok
}

// Import imports a module by fully-qualified dotted name, loading and
// executing it (and, parent-first, every package above it) if it is
// not already in the registry.
func (in *Interp) Import(fullname string) (*Module, error) {
	if !validModuleName(fullname) {
		return nil, fmt.Errorf("%w: invalid module name %q", ErrModuleNotFound, fullname)
	}
	return in.importModule(fullname)
}

func validModuleName(fullname string) bool {
	if fullname == "" {
		return false
	}
	for _, part := range strings.Split(fullname, ".") {
		if part == "" {
			return false
		}
	}
	return true
}

func (in *Interp) importModule(fullname string) (*Module, error) {
	if mod, ok := in.lookup(fullname); ok {
		return mod, nil
	}

	var parent *Module
	if i := strings.LastIndexByte(fullname, '.'); i >= 0 {
		p, err := in.importModule(fullname[:i])
		if err != nil {
			return nil, err
		}
		parent = p
	}

	spec, err := in.findSpec(fullname)
	if err != nil {
		return nil, err
	}
	if spec == nil {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, fullname)
	}

	mod := NewModule(fullname)
	mod.IsPackage = spec.IsPackage

	// Register before executing the body so that cyclic imports see
	// the partially-initialized module instead of recursing forever.
	in.store(fullname, mod)

	if err := in.loadAndExec(mod, spec); err != nil {
		in.remove(fullname)
		return nil, err
	}

	if parent != nil {
		parent.Set(fullname[strings.LastIndexByte(fullname, '.')+1:], mod)
	}

	in.Log(slog.LevelDebug, "module imported",
		slog.String("module", fullname),
		slog.String("file", mod.File))
	return mod, nil
}

func (in *Interp) lookup(fullname string) (*Module, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	mod, ok := in.modules[fullname]
	return mod, ok
}

func (in *Interp) store(fullname string, mod *Module) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.modules[fullname] = mod
}

func (in *Interp) remove(fullname string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	delete(in.modules, fullname)
}

func (in *Interp) findSpec(fullname string) (*ModuleSpec, error) {
	in.mu.Lock()
	finders := make([]Finder, len(in.finders))
	copy(finders, in.finders)
	in.mu.Unlock()

	for _, f := range finders {
		spec, err := f.FindSpec(fullname)
		if err != nil {
			return nil, err
		}
		if spec != nil {
			return spec, nil
		}
	}
	return nil, nil
}

// loadAndExec runs the load half of the protocol: ask the loader for
// the path and source, parse, and execute the body in mod's namespace.
func (in *Interp) loadAndExec(mod *Module, spec *ModuleSpec) error {
	if spec.Loader == nil {
		return nil
	}

	path, err := spec.Loader.Filename(spec.Name)
	if err != nil {
		return err
	}
	mod.File = path

	source, err := spec.Loader.Source(path)
	if err != nil {
		return in.withPath(err, path)
	}

	file, err := parser.Parse(source, componentLogger(in.logger, "parser"))
	if err != nil {
		return in.withPath(err, path)
	}

	return in.exec(mod, file)
}

// withPath stamps the originating file onto syntax errors that do not
// carry one yet.
func (in *Interp) withPath(err error, path string) error {
	var serr *types.SyntaxError
	if errors.As(err, &serr) && serr.Path == "" {
		serr.Path = path
	}
	return err
}

// exec executes a parsed module body statement by statement. Nested
// imports re-enter importModule on the current call stack.
func (in *Interp) exec(mod *Module, file *ast.File) error {
	for _, stmt := range file.Stmts {
		if in.TraceEnabled() {
			in.Trace("executing statement",
				slog.String("module", mod.Name),
				slog.Int("offset", int(stmt.StmtSpan().Start)))
		}

		var err error
		switch s := stmt.(type) {
		case *ast.ImportStmt:
			err = in.execImport(mod, s)
		case *ast.FromImportStmt:
			err = in.execFromImport(mod, s)
		case *ast.AssignStmt:
			err = in.execAssign(mod, s)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// execImport imports every dotted target. An aliased target binds the
// leaf module under the alias; an unaliased target binds the first
// component's module under its own name.
func (in *Interp) execImport(mod *Module, s *ast.ImportStmt) error {
	for _, t := range s.Targets {
		leaf, err := in.importModule(t.Path.String())
		if err != nil {
			return err
		}
		if t.Alias != nil {
			mod.Set(t.Alias.Name, leaf)
			continue
		}
		root := t.Path.Root()
		rootMod, ok := in.lookup(root)
		if !ok {
			// The parent-first import above guarantees the root.
			return fmt.Errorf("%w: %s", ErrModuleNotFound, root)
		}
		mod.Set(root, rootMod)
	}
	return nil
}

// execFromImport imports the addressed module and binds each listed
// name, preferring an attribute of the module and falling back to a
// submodule of it.
func (in *Interp) execFromImport(mod *Module, s *ast.FromImportStmt) error {
	src, err := in.importModule(s.Module.String())
	if err != nil {
		return err
	}
	for _, n := range s.Names {
		value, ok := src.Get(n.Name.Name)
		if !ok {
			sub, err := in.importModule(s.Module.String() + "." + n.Name.Name)
			if err != nil {
				if errors.Is(err, ErrModuleNotFound) {
					return fmt.Errorf("%w: cannot import name %q from %q",
						ErrModuleNotFound, n.Name.Name, s.Module.String())
				}
				return err
			}
			value = sub
		}
		bind := n.Name.Name
		if n.Alias != nil {
			bind = n.Alias.Name
		}
		mod.Set(bind, value)
	}
	return nil
}

func (in *Interp) execAssign(mod *Module, s *ast.AssignStmt) error {
	value, err := in.eval(mod, s.Value)
	if err != nil {
		return err
	}
	mod.Set(s.Name.Name, value)
	return nil
}

func (in *Interp) eval(mod *Module, expr ast.Expr) (Value, error) {
	switch e := expr.(type) {
	case *ast.StringLit:
		return StringValue(e.Value), nil
	case *ast.NumberLit:
		return NumberValue(e.Value), nil
	case *ast.DottedRef:
		return in.evalDottedRef(mod, e)
	default:
		return nil, fmt.Errorf("unsupported expression in module %s", mod.Name)
	}
}

func (in *Interp) evalDottedRef(mod *Module, e *ast.DottedRef) (Value, error) {
	current, ok := mod.Get(e.Path.Root())
	if !ok {
		return nil, fmt.Errorf("name %q is not defined in module %s", e.Path.Root(), mod.Name)
	}
	for _, part := range e.Path.Parts[1:] {
		holder, ok := current.(*Module)
		if !ok {
			return nil, fmt.Errorf("%s value has no attribute %q", current.TypeName(), part.Name)
		}
		next, ok := holder.Get(part.Name)
		if !ok {
			return nil, fmt.Errorf("module %s has no attribute %q", holder.Name, part.Name)
		}
		current = next
	}
	return current, nil
}
