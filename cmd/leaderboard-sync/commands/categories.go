package commands

import (
	"leaderboard-sync/internal/refresh"
	"leaderboard-sync/internal/scrapers/arena"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var categoriesOnly []string

func init() {
	categoriesCmd.Flags().StringSliceVar(&categoriesOnly, "only", nil, "Only list the given leaderboard files.")
	rootCmd.AddCommand(categoriesCmd)
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Lists every category kept in sync and the page it comes from.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		specs, err := selectSpecs(categoriesOnly)
		if err != nil {
			return err
		}

		baseUrl := strings.TrimSuffix(cfg.ArenaBaseUrl, "/")
		t := refresh.NewTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"File", "Category", "Style control", "Page"})
		for _, spec := range specs {
			for _, mapping := range spec.Categories {
				t.AppendRow(table.Row{
					spec.Filename,
					mapping.Key,
					spec.StyleControl.String(),
					baseUrl + arena.LeaderboardPath(spec.Modality, mapping.Slug, spec.StyleControl),
				})
			}
		}
		t.Render()
		return nil
	},
}
