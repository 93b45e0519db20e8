package commands

import (
	"fmt"
	"io"
	"reflect"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/conduit-lang/fixtures/internal/cli/config"
	"github.com/conduit-lang/fixtures/internal/cli/ui"
	"github.com/conduit-lang/fixtures/pkg/constraint"
	"github.com/conduit-lang/fixtures/pkg/errors"
	"github.com/conduit-lang/fixtures/pkg/fixtures"
	"github.com/conduit-lang/fixtures/pkg/valuetype"
)

// errReported marks errors whose message was already written for the user.
var errReported = errors.New("reported")

// reported writes msg to w and returns an error Execute will not print again.
func reported(w io.Writer, msg ui.Message, cause error) error {
	msg.Write(w)
	return errors.Mark(cause, errReported)
}

// session is a configured fixtures context plus the settings it came from.
type session struct {
	ctx    *fixtures.Context
	config *config.Config
	logger *zap.Logger
	parser *valuetype.Parser
}

// openSession loads the configuration, applies flag overrides and builds the
// context.
func openSession(flags *globalFlags, stderr io.Writer) (*session, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, reported(stderr, ui.ConfigError(err, flags.noColor), err)
	}
	if flags.seed != 0 {
		cfg.Seed = flags.seed
	}
	if flags.verbose {
		cfg.LogLevel = "debug"
	}

	logger, err := cfg.Logger()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.Options()
	if err != nil {
		return nil, reported(stderr, ui.ConfigError(err, flags.noColor), err)
	}

	return &session{
		ctx:    fixtures.New(append(opts, fixtures.WithLogger(logger))...),
		config: cfg,
		logger: logger,
		parser: newParser(),
	}, nil
}

// groups returns the validation groups to target, override first.
func (s *session) groups(override []string) []constraint.Group {
	names := override
	if len(names) == 0 {
		names = s.config.Groups
	}
	groups := make([]constraint.Group, 0, len(names))
	for _, n := range names {
		groups = append(groups, constraint.Group(n))
	}
	return groups
}

// newParser knows the predeclared types plus the types the built-in
// generators serve beyond them.
func newParser() *valuetype.Parser {
	p := valuetype.NewParser()
	p.Define("uuid.UUID", reflect.TypeFor[uuid.UUID]())
	return p
}

// parseType parses expr, reporting near misses among the known type names.
func parseType(p *valuetype.Parser, expr string, stderr io.Writer, noColor bool) (valuetype.Type, error) {
	t, err := p.Parse(expr)
	if err != nil {
		suggestions := ui.Suggest(expr, knownTypes(p), nil)
		return valuetype.Type{}, reported(stderr, ui.UnknownTypeError(expr, suggestions, noColor), err)
	}
	return t, nil
}

func knownTypes(p *valuetype.Parser) []string {
	names := p.Names()
	sort.Strings(names)
	return names
}

// describe names a plugin for listings.
func describe(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", v)
}
