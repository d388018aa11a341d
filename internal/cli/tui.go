package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/skijump/pkg/leaderboard"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var flags leaderboardFlags

	cmd := &cobra.Command{
		Use:   "browse [file]",
		Short: "Scroll through the standings interactively",
		Args:  cobra.MaximumNArgs(1),
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
			if len(s.placed) == 0 {
				printWarning("No valid rows to browse")
				return nil
			}

			p := tea.NewProgram(NewStandingsModel(s.placed, s.metric), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

// =============================================================================
// StandingsModel - Interactive standings browser
// =============================================================================

type standingsKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	First key.Binding
	Last  key.Binding
	Quit  key.Binding
}

func (k standingsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.First, k.Last, k.Quit}
}

func (k standingsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var standingsKeys = standingsKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	First: key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("g", "first"),
	),
	Last: key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("G", "last"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// StandingsModel is the bubbletea model for scrolling through placed entrants.
type StandingsModel struct {
	Records []leaderboard.PlacedRecord
	Metric  string
	Cursor  int
	Height  int
	Offset  int

	help help.Model
}

// NewStandingsModel creates a new standings model.
func NewStandingsModel(records []leaderboard.PlacedRecord, metric string) StandingsModel {
	return StandingsModel{
		Records: records,
		Metric:  metric,
		Height:  15,
		help:    help.New(),
	}
}

func (m StandingsModel) Init() tea.Cmd {
	return nil
}

func (m StandingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, standingsKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, standingsKeys.Up):
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case key.Matches(msg, standingsKeys.Down):
			if m.Cursor < len(m.Records)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case key.Matches(msg, standingsKeys.First):
			m.Cursor, m.Offset = 0, 0
		case key.Matches(msg, standingsKeys.Last):
			m.Cursor = len(m.Records) - 1
			if m.Cursor >= m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	}
	return m, nil
}

func (m StandingsModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Standings"))
	b.WriteString("\n")
	b.WriteString(m.help.View(standingsKeys))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Records))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Records[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, strconv.Itoa(r.Rank), r.Name, fmt.Sprintf("%.1f", r.Value)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Name", m.Metric).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			idx := m.Offset + row
			switch {
			case idx == m.Cursor:
				return listSelectedStyle
			case idx < podiumSize:
				return tablePodiumStyle.Bold(false)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")

	if m.Cursor < len(m.Records) {
		sel := m.Records[m.Cursor]
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  t=%.3f  x=%.0f  y=%.0f", sel.T, sel.Point.X, sel.Point.Y)))
		if sel.ImageRef != "" {
			b.WriteString(listDimStyle.Render("  " + sel.ImageRef))
		}
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Records))))

	return b.String()
}
