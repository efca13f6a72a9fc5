package farm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	farmdto "focusfarm/internal/modules/farm/dto"
	"focusfarm/internal/ui/theme"
)

const recentCycles = 5

type FarmPort interface {
	Stats(ctx context.Context) (farmdto.StatsOutput, error)
	Animals(ctx context.Context) ([]farmdto.AnimalOutput, error)
	Cycles(ctx context.Context, limit int) ([]farmdto.CycleOutput, error)
}

// RefreshMsg asks the view to reload the farm.
type RefreshMsg struct{}

type LoadedMsg struct {
	Stats   farmdto.StatsOutput
	Animals []farmdto.AnimalOutput
	Cycles  []farmdto.CycleOutput
	Err     error
}

type animalItem struct {
	animal farmdto.AnimalOutput
}

func (i animalItem) Title() string {
	return theme.Family(i.animal.Family).Render(strings.ReplaceAll(i.animal.Type, "_", " "))
}
func (i animalItem) Description() string { return "hatched " + i.animal.CreatedAt.Local().Format("Jan 2 15:04") }
func (i animalItem) FilterValue() string { return i.animal.Type }

type Model struct {
	port    FarmPort
	list    list.Model
	spinner spinner.Model
	stats   farmdto.StatsOutput
	cycles  []farmdto.CycleOutput
	err     error
	loading bool
	width   int
	height  int
}

func New(port FarmPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.BorderForeground(theme.Green)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Green)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Farm"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{port: port, list: l, spinner: sp, loading: true}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width/2, m.height)

	case RefreshMsg:
		return m, m.loadCmd()

	case LoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err != nil {
			return m, nil
		}
		m.stats = msg.Stats
		m.cycles = msg.Cycles
		items := make([]list.Item, len(msg.Animals))
		for i, a := range msg.Animals {
			items[i] = animalItem{animal: a}
		}
		cmds = append(cmds, m.list.SetItems(items))

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Counting animals…")
	}
	listW := m.width / 2
	listPane := lipgloss.NewStyle().Width(listW).Height(m.height).Render(m.list.View())
	statsPane := theme.Pane.Width(max(20, m.width-listW-2)).Render(m.renderStats())
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, statsPane)
}

// Filtering reports whether the animal filter is taking keystrokes.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) renderStats() string {
	if m.err != nil {
		return theme.Bad.Render("farm unavailable: " + m.err.Error())
	}
	s := m.stats
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Animals") + "\n")
	sb.WriteString(theme.Family("chicken").Render(fmt.Sprintf("chickens %d", s.Chickens)) + "  ")
	sb.WriteString(theme.Family("cat").Render(fmt.Sprintf("cats %d", s.Cats)) + "  ")
	sb.WriteString(theme.Family("dog").Render(fmt.Sprintf("dogs %d", s.Dogs)) + "\n\n")

	sb.WriteString(theme.Title.Render("Sessions") + "\n")
	sb.WriteString(fmt.Sprintf("%s%d (%d successful, %d interrupted)\n",
		theme.Muted.Render("total:    "), s.TotalSessions, s.SuccessfulSessions, s.InterruptedSessions))
	sb.WriteString(theme.Muted.Render("focus:    ") + humanDuration(s.TotalFocus) + "\n")
	sb.WriteString(theme.Muted.Render("average:  ") + humanDuration(s.AverageFocus) + "\n")
	sb.WriteString(theme.Muted.Render("longest:  ") + humanDuration(s.LongestFocus) + "\n")

	if len(m.cycles) > 0 {
		sb.WriteString("\n" + theme.Title.Render("Past cycles") + "\n")
		for _, c := range m.cycles {
			sb.WriteString(fmt.Sprintf("%s  %-7s %d animals  %s\n",
				c.End.Local().Format("2006-01-02"), c.CycleType, c.Chickens+c.Cats+c.Dogs, theme.Muted.Render(c.Reason)))
		}
	}
	return sb.String()
}

func humanDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d/time.Minute))
	}
	return fmt.Sprintf("%dh%02dm", int(d/time.Hour), int(d/time.Minute)%60)
}

func (m Model) loadCmd() tea.Cmd {
	port := m.port
	return func() tea.Msg {
		if port == nil {
			return LoadedMsg{}
		}
		ctx := context.Background()
		stats, err := port.Stats(ctx)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		animals, err := port.Animals(ctx)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		cycles, err := port.Cycles(ctx, recentCycles)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		return LoadedMsg{Stats: stats, Animals: animals, Cycles: cycles}
	}
}
