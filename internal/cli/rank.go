package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/skijump/pkg/leaderboard"
	"github.com/matzehuels/skijump/pkg/pipeline"
)

// podiumSize is the number of leading ranks highlighted in tables.
const podiumSize = 3

var (
	tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	tablePodiumStyle = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
)

// rankCommand creates the rank command.
func (c *CLI) rankCommand() *cobra.Command {
	var flags leaderboardFlags

	cmd := &cobra.Command{
		Use:   "rank [file]",
		Short: "Print the standings as a table",
		Long: `Print the standings as a table.

Rank loads and places the input exactly like render does, then prints each
entrant's rank, value and position on the ramp instead of writing files.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts, err := flags.options(cmd, cfg, args)
			if err != nil {
				return err
			}
			s, err := c.loadStandings(cmd.Context(), opts)
			if err != nil {
				return err
			}

			fmt.Println(standingsTable(s.placed, s.metric))
			printStats(s.stats, false)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// standings is a ranked and placed table without rendered artifacts.
type standings struct {
	placed []leaderboard.PlacedRecord
	stats  pipeline.Stats
	metric string
}

// loadStandings runs the load, rank and place stages only.
func (c *CLI) loadStandings(ctx context.Context, opts pipeline.Options) (*standings, error) {
	opts.Logger = c.Logger
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	if err := opts.ValidateForBuild(); err != nil {
		return nil, err
	}
	opts.SetRenderDefaults()

	runner := pipeline.NewRunner(nil, nil, c.Logger)
	_, entries, err := runner.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	placed, valid := runner.Build(ctx, entries, opts)

	return &standings{
		placed: placed,
		stats:  pipeline.Stats{Rows: len(entries), Valid: valid, Shown: len(placed)},
		metric: opts.MetricLabel,
	}, nil
}

// standingsTable renders placed records as a bordered table.
func standingsTable(placed []leaderboard.PlacedRecord, metric string) string {
	rows := make([][]string, 0, len(placed))
	for _, p := range placed {
		rows = append(rows, []string{
			strconv.Itoa(p.Rank),
			p.Name,
			fmt.Sprintf("%.1f", p.Value),
			fmt.Sprintf("%.3f", p.T),
			fmt.Sprintf("%.0f, %.0f", p.Point.X, p.Point.Y),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Name", metric, "t", "Position").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == -1:
				return tableHeaderStyle.Padding(0, 1)
			case row < podiumSize && col <= 1:
				return tablePodiumStyle.Padding(0, 1)
			case col >= 3:
				return base.Foreground(colorGray)
			}
			return base
		})

	return t.Render()
}
