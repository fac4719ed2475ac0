package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/watchlist/internal/dashboard"
	"github.com/mesh-intelligence/watchlist/internal/query"
)

const (
	boxChecked   = "☑"
	boxUnchecked = "☐"
)

var (
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Less   key.Binding
	More   key.Binding
	Reload key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Less, k.More, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.Less, k.More},
		{k.Reload, k.Help, k.Quit},
	}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous status")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next status")),
		Toggle: key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle status")),
		Less:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "fewer votes")),
		More:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "more votes")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more help")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// changeMsg signals that a watched file changed.
type changeMsg dashboard.Change

// modelTUI is the interactive dashboard. It owns the view state and asks
// the Dashboard for fresh views after every interaction.
type modelTUI struct {
	dash    *dashboard.Dashboard
	changes <-chan dashboard.Change

	state  query.ViewState
	views  dashboard.Views
	cursor int

	keys keyMap
	help help.Model
}

func newModelTUI(d *dashboard.Dashboard, changes <-chan dashboard.Change) modelTUI {
	m := modelTUI{
		dash:    d,
		changes: changes,
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
	m.refresh()
	return m
}

// refresh recomputes the views for the current state.
func (m *modelTUI) refresh() {
	m.views = m.dash.Views(m.state)
	m.state = m.views.State
	if m.cursor >= len(m.views.StatusOptions) {
		m.cursor = max(len(m.views.StatusOptions)-1, 0)
	}
}

// voteStep is the slider increment: a twentieth of the ceiling.
func (m modelTUI) voteStep() int {
	return max(m.views.VoteCeiling/20, 1)
}

func waitForChange(changes <-chan dashboard.Change) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		c, ok := <-changes
		if !ok {
			return nil
		}
		return changeMsg(c)
	}
}

func (m modelTUI) Init() tea.Cmd { return waitForChange(m.changes) }

func (m modelTUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changeMsg:
		m.refresh()
		return m, waitForChange(m.changes)
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.views.StatusOptions)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Toggle):
			if m.cursor < len(m.views.StatusOptions) {
				m.state = m.state.Toggle(m.views.StatusOptions[m.cursor])
			}
		case key.Matches(msg, m.keys.Less):
			m.state.MinVotes -= m.voteStep()
		case key.Matches(msg, m.keys.More):
			m.state.MinVotes += m.voteStep()
		case key.Matches(msg, m.keys.Reload):
			m.dash.Invalidate()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		default:
			return m, nil
		}
		m.refresh()
	}
	return m, nil
}

func (m modelTUI) View() string {
	var sb strings.Builder
	v := m.views

	sb.WriteString(titleStyle.Render("Anime watchlist") + "\n")
	sb.WriteString(subtleStyle.Render(fmt.Sprintf("%d entries | average rating %s",
		len(v.Entries), v.AverageRating.StringFixed(2))) + "\n\n")

	switch {
	case v.EntriesErr != nil:
		sb.WriteString(errorStyle.Render("Entries unavailable: "+v.EntriesErr.Error()) + "\n")
	case !v.HasEntries():
		sb.WriteString(warnStyle.Render(noEntriesMessage) + "\n")
	default:
		var genres strings.Builder
		writeGenres(&genres, v)
		sb.WriteString(panelStyle.Render(strings.TrimRight(genres.String(), "\n")) + "\n")

		var ratings strings.Builder
		for i, s := range v.StatusOptions {
			box := boxUnchecked
			if m.state.Selected(s) {
				box = boxChecked
			}
			prefix := "  "
			line := box + " " + s
			if i == m.cursor {
				prefix = selectedStyle.Render("> ")
				line = selectedStyle.Render(line)
			}
			ratings.WriteString(prefix + line + "\n")
		}
		writeRatings(&ratings, v)
		sb.WriteString(panelStyle.Render(strings.TrimRight(ratings.String(), "\n")) + "\n")
	}

	var chars strings.Builder
	if v.CharactersErr == nil {
		fmt.Fprintf(&chars, "Minimum votes: %d / %d\n", m.state.MinVotes, v.VoteCeiling)
	}
	writeCharacters(&chars, v)
	sb.WriteString(panelStyle.Render(strings.TrimRight(chars.String(), "\n")) + "\n")

	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func newDashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive dashboard",
		Long: `Dashboard shows the genre, rating, and character charts together. Toggle
statuses for the rating chart, move the character vote threshold, and watch
the charts follow external edits to the data files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, closeFn, err := a.openDashboard()
			if err != nil {
				return err
			}
			defer closeFn()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			changes, err := d.Watch(ctx, a.entriesPath(), a.referencePath())
			if err != nil {
				a.logger.Warn("live refresh disabled", zap.Error(err))
			}

			p := tea.NewProgram(newModelTUI(d, changes),
				tea.WithAltScreen(),
				tea.WithContext(ctx),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()))
			if _, err := p.Run(); err != nil {
				return sysError("dashboard: %w", err)
			}
			return nil
		},
	}
}
