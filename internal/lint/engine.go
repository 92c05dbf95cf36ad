package lint

import (
	"context"
	"fmt"
	"sort"

	"cstyle/internal/diag"
	"cstyle/internal/indent"
	"cstyle/internal/source"
	"cstyle/internal/symbols"
	"cstyle/internal/syntax"
	"cstyle/internal/trace"
)

// Engine dispatches trees to policies. It holds no per-file state and can
// analyze several files concurrently.
type Engine struct {
	policies []Policy
	catalog  *Catalog
	calc     *indent.Calculator
	symbols  *symbols.Cache
	opts     Options
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithOptions sets the policy tunables.
func WithOptions(opts Options) EngineOption {
	return func(e *Engine) { e.opts = opts }
}

// WithSymbols shares a class index cache, e.g. across the files of one run.
func WithSymbols(cache *symbols.Cache) EngineOption {
	return func(e *Engine) { e.symbols = cache }
}

// NewEngine returns an engine for the given policies. The catalog must have
// been built from the same policies.
func NewEngine(policies []Policy, catalog *Catalog, opts ...EngineOption) *Engine {
	e := &Engine{
		policies: policies,
		catalog:  catalog,
		opts:     DefaultOptions(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.symbols == nil {
		e.symbols = symbols.NewCache()
	}
	e.calc = indent.New(e.opts.IndentWidth)
	return e
}

// Catalog returns the registry the engine reports with.
func (e *Engine) Catalog() *Catalog { return e.catalog }

// Unit is one file to analyze: its stored content and the producer forest.
type Unit struct {
	Files  *source.FileSet
	File   source.FileID
	Forest syntax.Forest
}

// Analyze checks the byte-order mark and then walks every tree of the forest.
// Reports go to r in document order. A policy error aborts the file: every
// diagnostic already reported stays, nothing after it is produced.
func (e *Engine) Analyze(ctx context.Context, u Unit, r diag.Reporter) error {
	f := u.Files.Get(u.File)
	if f == nil {
		return fmt.Errorf("unknown file id %d", u.File)
	}
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFile, "analyze", trace.CurrentSpan(ctx).SpanID).WithExtra("path", f.Path)
	c := &Context{
		ctx:      trace.WithSpanContext(ctx, trace.SpanContext{SpanID: span.ID()}),
		path:     f.Path,
		files:    u.Files,
		file:     u.File,
		indent:   e.calc,
		symbols:  e.symbols,
		opts:     e.opts,
		catalog:  e.catalog,
		reporter: r,
	}

	shift, err := c.checkBOM(f)
	if err != nil {
		span.End(err.Error())
		return err
	}
	c.shift = shift

	paths := make([]string, 0, len(u.Forest))
	for p := range u.Forest {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			span.End("canceled")
			return err
		}
		c.path = p
		if err := e.walk(c, u.Forest[p]); err != nil {
			span.End(err.Error())
			return err
		}
	}
	span.WithExtra("diagnostics", fmt.Sprint(c.Reported())).End("")
	return nil
}

func (e *Engine) walk(c *Context, root *syntax.Node) error {
	if root == nil {
		return fmt.Errorf("%s: %w", c.path, syntax.ErrEmptyForest)
	}
	tracer := trace.FromContext(c.ctx)
	parent := trace.CurrentSpan(c.ctx).SpanID
	node := trace.Begin(tracer, trace.ScopePolicy, "walk:"+c.path, parent)
	defer node.End("")

	var visit func(n *syntax.Node, parents syntax.Parents) error
	visit = func(n *syntax.Node, parents syntax.Parents) error {
		for _, p := range e.policies {
			c.policy = p
			if err := p.AnalyzeNode(c, n, parents); err != nil {
				return &PolicyError{Path: c.path, Policy: p.Code(), Err: err}
			}
		}
		inner := parents.Push(n)
		for _, child := range n.Children {
			switch ch := child.(type) {
			case *syntax.Token:
				for _, p := range e.policies {
					c.policy = p
					if err := p.AnalyzeToken(c, ch, inner); err != nil {
						return &PolicyError{Path: c.path, Policy: p.Code(), Err: err}
					}
				}
			case *syntax.Node:
				if err := visit(ch, inner); err != nil {
					return err
				}
			}
		}
		return nil
	}
	err := visit(root, nil)
	c.policy = nil
	return err
}

// PolicyError is a policy failure on one file, typically a broken ancestor
// chain surfaced by the navigation helpers.
type PolicyError struct {
	Path   string
	Policy string
	Err    error
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("%s: policy %s: %v", e.Path, e.Policy, e.Err)
}

func (e *PolicyError) Unwrap() error { return e.Err }
