package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ceopag/eloquence-base/internal/app"
	"github.com/ceopag/eloquence-base/pkg/database"
	"github.com/ceopag/eloquence-base/pkg/orm/relations"
)

func newExplainCmd(load configLoader) *cobra.Command {
	var (
		joinType string
		self     string
		segments []string
		models   []string
	)

	cmd := &cobra.Command{
		Use:   "explain <model> <path>",
		Short: "Print the SQL produced by joining a relation path",
		Example: `  eloquence explain Event venue.sections
  eloquence explain Event tags --type left --self e
  eloquence explain Ticket event.venue --segment event.venue=v --output json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jt := database.JoinType(strings.ToUpper(joinType))
			if !jt.Valid() {
				return fmt.Errorf("invalid join type %q: expected inner, left or right", joinType)
			}
			aliases, err := parseAliases(self, segments, models)
			if err != nil {
				return err
			}

			cfg, err := load()
			if err != nil {
				return err
			}
			a, err := app.New(context.Background(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			q, err := a.QueryWith(args[0], aliases)
			if err != nil {
				return err
			}
			if _, err := q.JoinPath(args[1], jt); err != nil {
				return err
			}
			sqlStr, bindings, err := q.ToSQL()
			if err != nil {
				return err
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(cmd.OutOrStdout(), map[string]interface{}{
					"sql":      sqlStr,
					"bindings": bindings,
					"joins":    q.Joins(),
				})
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), sqlStr)
			if len(bindings) > 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "-- bindings: %v\n", bindings)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&joinType, "type", "t", "inner", "join type: inner, left or right")
	cmd.Flags().StringVar(&self, "self", "", "alias for the root table")
	cmd.Flags().StringArrayVar(&segments, "segment", nil, "segment alias as path=alias (repeatable)")
	cmd.Flags().StringArrayVar(&models, "model", nil, "model alias as Model=alias (repeatable)")
	return cmd
}

func parseAliases(self string, segments, models []string) (relations.Aliases, error) {
	aliases := relations.Aliases{}.WithSelf(self)
	for _, s := range segments {
		key, alias, ok := strings.Cut(s, "=")
		if !ok || key == "" || alias == "" {
			return aliases, fmt.Errorf("invalid --segment %q: expected path=alias", s)
		}
		aliases = aliases.WithSegment(key, alias)
	}
	for _, m := range models {
		key, alias, ok := strings.Cut(m, "=")
		if !ok || key == "" || alias == "" {
			return aliases, fmt.Errorf("invalid --model %q: expected Model=alias", m)
		}
		aliases = aliases.WithModel(key, alias)
	}
	return aliases, nil
}
