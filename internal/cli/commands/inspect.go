package commands

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/fixtures/internal/cli/ui"
	"github.com/conduit-lang/fixtures/pkg/errors"
	"github.com/conduit-lang/fixtures/pkg/generator"
	"github.com/conduit-lang/fixtures/pkg/params"
	"github.com/conduit-lang/fixtures/pkg/priority"
)

// parameterTypes are the parameters types the extractors command accepts.
var parameterTypes = map[string]params.Type{
	"basic":      params.BasicType,
	"string":     params.StringType,
	"number":     params.NumberType,
	"collection": params.CollectionType,
	"map":        params.MapType,
	"pointer":    params.PointerType,
}

// NewGeneratorsCommand creates the generators command
func NewGeneratorsCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "generators [type]",
		Short: "List generators in resolution order",
		Long: `List the working set of generators, highest priority first.

Given a type, the generators supporting it are marked and the one that
resolves it is shown.

Examples:
  fixtures generators
  fixtures generators "map[string]int"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.logger.Sync()
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				table := ui.NewTable(out, flags.noColor, "#", "Generator", "Priority")
				for i, g := range s.ctx.Generators().All() {
					table.AddRow(strconv.Itoa(i), describe(g), strconv.Itoa(priority.Of(g)))
				}
				table.Render()
				return nil
			}

			t, err := parseType(s.parser, args[0], cmd.ErrOrStderr(), flags.noColor)
			if err != nil {
				return err
			}

			table := ui.NewTable(out, flags.noColor, "#", "Generator", "Priority", "Supports")
			for i, g := range s.ctx.Generators().All() {
				mark := ""
				if g.Supports(t) {
					mark = "✓"
				}
				table.AddRow(strconv.Itoa(i), describe(g), strconv.Itoa(priority.Of(g)), mark)
			}
			table.Render()
			fmt.Fprintln(out)

			winner := s.ctx.Resolve(t)
			if generator.IsMissing(winner) {
				_, err := winner.Default(s.ctx.Env(), t)
				msg := ui.GenerationError(args[0], err, errors.GetAllHints(err), flags.noColor)
				return reported(cmd.ErrOrStderr(), msg, err)
			}
			kv := ui.NewKeyValueTable(out, flags.noColor)
			kv.AddRow("type", t.String())
			kv.AddRow("resolved by", describe(winner))
			if pg, ok := winner.(generator.Parameterizable); ok {
				kv.AddRow("parameters", pg.ParametersType().String())
			}
			kv.Render()
			return nil
		},
	}
}

// NewExtractorsCommand creates the extractors command
func NewExtractorsCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "extractors <parameters>",
		Short: "Show the extractors folding into a parameters type",
		Long: fmt.Sprintf(`Show the extractors that populate a parameters type, in the order
they are applied.

Parameters types: %v

Examples:
  fixtures extractors string
  fixtures extractors collection`, parameterNames()),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ptype, ok := parameterTypes[args[0]]
			if !ok {
				msg := ui.Message{
					Level:        ui.LevelError,
					Context:      "unknown parameters type",
					Problem:      fmt.Sprintf("No parameters type named '%s'.", args[0]),
					Suggestions:  ui.Suggest(args[0], parameterNames(), nil),
					HelpCommands: []string{"Get help: fixtures extractors --help"},
					NoColor:      flags.noColor,
				}
				return reported(cmd.ErrOrStderr(), msg, errors.IllegalArgument("unknown parameters type %q", args[0]))
			}

			s, err := openSession(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.logger.Sync()

			agg, err := s.ctx.ExtractorFor(ptype)
			if err != nil {
				return err
			}
			table := ui.NewTable(cmd.OutOrStdout(), flags.noColor, "#", "Extractor", "Source", "Target", "Priority")
			for i, e := range agg.Extractors() {
				table.AddRow(strconv.Itoa(i), describe(e), e.SourceType().String(), e.TargetType().String(), strconv.Itoa(priority.Of(e)))
			}
			table.Render()
			return nil
		},
	}
}

// NewTypesCommand creates the types command
func NewTypesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the type names generate understands",
		Long: `List the named types usable in type expressions. Compose them with
[]T, [N]T, *T and map[K]V.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range knownTypes(newParser()) {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}

func parameterNames() []string {
	names := make([]string, 0, len(parameterTypes))
	for name := range parameterTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
