// Package fixtures is the entry point for producing test data. A Context
// wires the generator and extractor registries to the providers registered
// with package plugin, the built-in ones included:
//
//	ctx := fixtures.New(fixtures.WithSeed(1))
//	user, err := fixtures.Random[User](ctx)
//
// Struct fields, constructor arguments and generic type arguments are
// steered by the constraints declared on them in `fixture` struct tags or in
// the Context's constraint.Catalog.
package fixtures

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/conduit-lang/fixtures/pkg/constraint"
	"github.com/conduit-lang/fixtures/pkg/errors"
	"github.com/conduit-lang/fixtures/pkg/extract"
	_ "github.com/conduit-lang/fixtures/pkg/extractors"
	"github.com/conduit-lang/fixtures/pkg/generator"
	"github.com/conduit-lang/fixtures/pkg/generators"
	"github.com/conduit-lang/fixtures/pkg/nullpolicy"
	"github.com/conduit-lang/fixtures/pkg/params"
	"github.com/conduit-lang/fixtures/pkg/plugin"
	"github.com/conduit-lang/fixtures/pkg/valuetype"
)

// Context produces values through its own generator and extractor
// registries. It is safe for concurrent use.
type Context struct {
	generators   *generator.Registry
	extractors   *extract.Registry
	introspector *constraint.Introspector
	env          *generator.Env
	logger       *zap.Logger
}

type options struct {
	logger     *zap.Logger
	catalog    *constraint.Catalog
	generators generator.Discoverer
	extractors extract.Discoverer
	env        []generator.EnvOption
}

// Option configures a Context.
type Option func(*options)

// WithLogger sets the logger shared by the registries and generators.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithCatalog sets the catalog holding explicit constraint declarations and
// constructors.
func WithCatalog(catalog *constraint.Catalog) Option {
	return func(o *options) { o.catalog = catalog }
}

// WithNulls sets the null policy of the nullable operations.
func WithNulls(d nullpolicy.Decider) Option {
	return func(o *options) { o.env = append(o.env, generator.WithNulls(d)) }
}

// WithSeed makes random values reproducible.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.env = append(o.env, generator.WithSeed(seed)) }
}

// WithGroups sets the validation groups active while filling structs,
// constructor arguments and collections.
func WithGroups(groups ...constraint.Group) Option {
	return func(o *options) { o.env = append(o.env, generator.WithGroups(groups...)) }
}

// WithMaxDepth bounds how deep composite values nest.
func WithMaxDepth(depth int) Option {
	return func(o *options) { o.env = append(o.env, generator.WithMaxDepth(depth)) }
}

// WithMaxSize caps open collection size ranges.
func WithMaxSize(n int) Option {
	return func(o *options) { o.env = append(o.env, generator.WithMaxSize(n)) }
}

// WithMaxLength caps open string length ranges.
func WithMaxLength(n int) Option {
	return func(o *options) { o.env = append(o.env, generator.WithMaxLength(n)) }
}

// WithGeneratorDiscovery replaces plugin discovery of default generators.
func WithGeneratorDiscovery(discover generator.Discoverer) Option {
	return func(o *options) { o.generators = discover }
}

// WithExtractorDiscovery replaces plugin discovery of default extractors.
func WithExtractorDiscovery(discover extract.Discoverer) Option {
	return func(o *options) { o.extractors = discover }
}

// New creates a Context. Unless overridden, defaults are the generators and
// extractors of every registered plugin plus a constructor generator for the
// catalog.
func New(opts ...Option) *Context {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.catalog == nil {
		o.catalog = constraint.NewCatalog()
	}
	if o.generators == nil {
		catalog := o.catalog
		o.generators = func() []generator.Generator {
			return append(plugin.Generators(), generators.NewConstructor(catalog))
		}
	}
	if o.extractors == nil {
		o.extractors = plugin.Extractors
	}

	c := &Context{
		generators:   generator.NewRegistry(o.generators, generator.WithLogger(o.logger)),
		extractors:   extract.NewRegistry(o.extractors, extract.WithLogger(o.logger)),
		introspector: constraint.NewIntrospector(o.catalog),
		logger:       o.logger,
	}
	envOpts := append([]generator.EnvOption{
		generator.WithIntrospector(c.introspector),
		generator.WithEnvLogger(o.logger),
	}, o.env...)
	c.env = generator.NewEnv(c.generators, c.extractors, envOpts...)
	return c
}

// Env returns the environment generators run in.
func (c *Context) Env() *generator.Env { return c.env }

// Catalog returns the catalog constraints and constructors are declared in.
func (c *Context) Catalog() *constraint.Catalog { return c.introspector.Catalog() }

// Introspector returns the introspector resolving element constraints.
func (c *Context) Introspector() *constraint.Introspector { return c.introspector }

// Resolve returns the generator chosen for t. An unresolvable type yields a
// generator failing with ErrGeneratorNotFound.
func (c *Context) Resolve(t valuetype.Type) generator.Generator {
	return c.generators.Resolve(t)
}

// Default returns the default value of t, steered by sources such as
// constraints or parameters objects.
func (c *Context) Default(t valuetype.Type, sources ...any) (any, error) {
	return c.env.DefaultValue(t, sources...)
}

// Random returns a random value of t.
func (c *Context) Random(t valuetype.Type, sources ...any) (any, error) {
	return c.env.RandomValue(t, sources...)
}

// NullableDefault is Default that returns nil when nulls are allowed and the
// null policy fires.
func (c *Context) NullableDefault(t valuetype.Type, sources ...any) (any, error) {
	return c.env.NullableDefaultValue(t, sources...)
}

// NullableRandom is Random that returns nil when nulls are allowed and the
// null policy fires.
func (c *Context) NullableRandom(t valuetype.Type, sources ...any) (any, error) {
	return c.env.NullableRandomValue(t, sources...)
}

// Targeted returns the generator for elem, steered by its constraints.
func (c *Context) Targeted(elem constraint.Element) (*generator.Targeted, error) {
	return generator.For(c.env, elem)
}

// DefaultFor returns the default value for elem under the constraints active
// for groups.
func (c *Context) DefaultFor(elem constraint.Element, groups ...constraint.Group) (any, error) {
	tg, err := c.Targeted(elem)
	if err != nil {
		return nil, err
	}
	return tg.Default(c.env, groups...)
}

// RandomFor returns a random value for elem.
func (c *Context) RandomFor(elem constraint.Element, groups ...constraint.Group) (any, error) {
	tg, err := c.Targeted(elem)
	if err != nil {
		return nil, err
	}
	return tg.Random(c.env, groups...)
}

// NullableDefaultFor is DefaultFor that may return nil.
func (c *Context) NullableDefaultFor(elem constraint.Element, groups ...constraint.Group) (any, error) {
	tg, err := c.Targeted(elem)
	if err != nil {
		return nil, err
	}
	return tg.NullableDefault(c.env, groups...)
}

// NullableRandomFor is RandomFor that may return nil.
func (c *Context) NullableRandomFor(elem constraint.Element, groups ...constraint.Group) (any, error) {
	tg, err := c.Targeted(elem)
	if err != nil {
		return nil, err
	}
	return tg.NullableRandom(c.env, groups...)
}

// Property returns the element backing the named property of owner.
func (c *Context) Property(owner reflect.Type, name string) (constraint.Element, error) {
	return c.introspector.Property(owner, name)
}

// RegisterGenerators adds generators to the working set.
func (c *Context) RegisterGenerators(gs ...generator.Generator) error {
	if err := c.generators.Register(gs...); err != nil {
		return err
	}
	c.logger.Debug("generators registered", zap.Int("count", len(gs)))
	return nil
}

// RemoveGenerators drops one registered copy of each generator.
func (c *Context) RemoveGenerators(gs ...generator.Generator) error {
	return c.generators.Remove(gs...)
}

// ResetGenerators restores the discovered defaults.
func (c *Context) ResetGenerators() { c.generators.Reset() }

// Generators returns the working set of generators in resolution order.
func (c *Context) Generators() generator.List { return c.generators.Generators() }

// RegisterExtractors adds extractors to the working set.
func (c *Context) RegisterExtractors(es ...extract.Extractor) error {
	if err := c.extractors.Register(es...); err != nil {
		return err
	}
	c.logger.Debug("extractors registered", zap.Int("count", len(es)))
	return nil
}

// RemoveExtractors drops one registered copy of each extractor.
func (c *Context) RemoveExtractors(es ...extract.Extractor) error {
	return c.extractors.Remove(es...)
}

// ResetExtractors restores the discovered defaults.
func (c *Context) ResetExtractors() { c.extractors.Reset() }

// Extractors returns the working set of extractors.
func (c *Context) Extractors() extract.List { return c.extractors.Extractors() }

// ExtractorFor returns the aggregate populating parameters of ptype.
func (c *Context) ExtractorFor(ptype params.Type) (*extract.Aggregate, error) {
	return c.extractors.ExtractorFor(ptype)
}

// Default returns the default value of T.
func Default[T any](c *Context, sources ...any) (T, error) {
	v, err := c.Default(valuetype.Of[T](), sources...)
	return as[T](v, err)
}

// Random returns a random value of T.
func Random[T any](c *Context, sources ...any) (T, error) {
	v, err := c.Random(valuetype.Of[T](), sources...)
	return as[T](v, err)
}

// Fill sets every zero-valued exported field of the struct dst points to,
// leaving fields that already hold a value alone. A non-struct *dst is
// replaced by a random value when it is zero.
func Fill[T any](c *Context, dst *T, groups ...constraint.Group) error {
	if dst == nil {
		return errors.IllegalArgument("fill target is nil")
	}
	rv := reflect.ValueOf(dst).Elem()

	if rv.Kind() != reflect.Struct {
		if !rv.IsZero() {
			return nil
		}
		v, err := Random[T](c)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}

	fields, err := c.introspector.Fields(rv.Type())
	if err != nil {
		return err
	}
	for _, field := range fields {
		fv := rv.Field(field.Index)
		if !fv.IsZero() || unfillable[fv.Kind()] {
			continue
		}
		v, err := c.RandomFor(field, groups...)
		if err != nil {
			return err
		}
		if v == nil {
			continue
		}
		value := reflect.ValueOf(v)
		if !value.Type().AssignableTo(fv.Type()) {
			if !value.Type().ConvertibleTo(fv.Type()) {
				return errors.GenerationFailure(nil, "cannot use %s as %s in field %s", value.Type(), fv.Type(), field.Name)
			}
			value = value.Convert(fv.Type())
		}
		fv.Set(value)
	}
	return nil
}

var unfillable = map[reflect.Kind]bool{
	reflect.Interface:     true,
	reflect.Chan:          true,
	reflect.Func:          true,
	reflect.UnsafePointer: true,
}

func as[T any](v any, err error) (T, error) {
	var zero T
	if err != nil || v == nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, errors.GenerationFailure(nil, "generated %T, want %s", v, valuetype.Of[T]())
	}
	return t, nil
}
