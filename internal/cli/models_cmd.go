package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ceopag/eloquence-base/internal/app"
)

type relationView struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Related string `json:"related,omitempty"`
}

type modelView struct {
	Name      string         `json:"name"`
	Table     string         `json:"table"`
	Keys      []string       `json:"keys"`
	DeletedAt string         `json:"deleted_at,omitempty"`
	Relations []relationView `json:"relations"`
}

func newModelsCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List registered models and their relations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			a, err := app.New(context.Background(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			views, err := describeModels(a)
			if err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(cmd.OutOrStdout(), views)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, m := range views {
				_, _ = fmt.Fprintf(w, "%s\t%s\t\t\n", m.Name, m.Table)
				for _, r := range m.Relations {
					_, _ = fmt.Fprintf(w, "  %s\t%s\t%s\t\n", r.Name, r.Kind, r.Related)
				}
			}
			return w.Flush()
		},
	}
}

func describeModels(a *app.App) ([]modelView, error) {
	views := make([]modelView, 0, len(a.Models.Names()))
	for _, name := range a.Models.Names() {
		m, err := a.Model(name)
		if err != nil {
			return nil, err
		}

		view := modelView{Name: m.Name, Table: m.Table, Keys: m.Keys, DeletedAt: m.DeletedAt}
		for _, rel := range m.Relations() {
			r, err := m.Relation(rel)
			if err != nil {
				return nil, err
			}
			rv := relationView{Name: rel, Kind: string(r.Kind())}
			if related := r.Related(); related != nil {
				rv.Related = related.Name
			}
			view.Relations = append(view.Relations, rv)
		}
		views = append(views, view)
	}
	return views, nil
}
