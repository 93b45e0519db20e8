package commands

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/fixtures/internal/cli/ui"
	"github.com/conduit-lang/fixtures/pkg/constraint"
	"github.com/conduit-lang/fixtures/pkg/errors"
	"github.com/conduit-lang/fixtures/pkg/valuetype"
)

// NewGenerateCommand creates the generate command
func NewGenerateCommand(flags *globalFlags) *cobra.Command {
	var (
		count    int
		defaults bool
		nullable bool
		tag      string
		groups   []string
	)

	cmd := &cobra.Command{
		Use:     "generate <type>",
		Aliases: []string{"gen", "g"},
		Short:   "Generate values of a Go type",
		Long: `Generate values of a Go type and print them as JSON, one per line.

Constraints use the fixture struct tag grammar and apply as if the type
were a struct field carrying the tag.

Examples:
  fixtures generate int --tag "min=1;max=6" -n 10
  fixtures generate "[]string" --tag "size=2..3;elem:pattern=[a-z]{4}"
  fixtures generate "map[string]*int" --nullable --seed 42
  fixtures generate uuid.UUID --default`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 0 {
				return errors.IllegalArgument("--count must not be negative, got %d", count)
			}

			s, err := openSession(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.logger.Sync()

			t, err := parseType(s.parser, args[0], cmd.ErrOrStderr(), flags.noColor)
			if err != nil {
				return err
			}
			elem := taggedElement(t, tag)
			active := s.groups(groups)

			enc := json.NewEncoder(cmd.OutOrStdout())
			for i := 0; i < count; i++ {
				v, err := produce(s, elem, active, defaults, nullable)
				if err != nil {
					msg := ui.GenerationError(args[0], err, errors.GetAllHints(err), flags.noColor)
					return reported(cmd.ErrOrStderr(), msg, err)
				}
				if err := enc.Encode(v); err != nil {
					return errors.Wrapf(err, "encoding %s", t)
				}
			}
			s.logger.Debug("generated values", zap.Stringer("type", t), zap.Int("count", count))
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of values to generate")
	cmd.Flags().BoolVar(&defaults, "default", false, "Generate default instead of random values")
	cmd.Flags().BoolVar(&nullable, "nullable", false, "Allow nulls under the configured null probability")
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "Constraints in fixture tag syntax")
	cmd.Flags().StringSliceVarP(&groups, "group", "g", nil, "Validation groups to activate (default from config)")

	return cmd
}

// taggedElement anchors t to a synthetic struct field carrying tag, so the
// tag is introspected like any declared field.
func taggedElement(t valuetype.Type, tag string) constraint.Element {
	field := reflect.StructField{Name: "Value", Type: t.Raw()}
	if tag != "" {
		field.Tag = reflect.StructTag(fmt.Sprintf("%s:%q", constraint.TagKey, tag))
	}
	holder := reflect.StructOf([]reflect.StructField{field})
	return constraint.FieldOf(holder, holder.Field(0))
}

func produce(s *session, elem constraint.Element, groups []constraint.Group, defaults, nullable bool) (any, error) {
	switch {
	case defaults && nullable:
		return s.ctx.NullableDefaultFor(elem, groups...)
	case defaults:
		return s.ctx.DefaultFor(elem, groups...)
	case nullable:
		return s.ctx.NullableRandomFor(elem, groups...)
	default:
		return s.ctx.RandomFor(elem, groups...)
	}
}
