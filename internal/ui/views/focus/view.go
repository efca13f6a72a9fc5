package focus

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	timerdto "focusfarm/internal/modules/timer/dto"
	"focusfarm/internal/ui/theme"
)

const defaultBarWidth = 30

// StateMsg carries a timer update into the view.
type StateMsg struct {
	State timerdto.StateOutput
}

// Model renders the focus screen. It holds no timer logic of its own; the
// app model feeds it every state published by the timer.
type Model struct {
	state   timerdto.StateOutput
	reason  string
	spinner spinner.Model
	width   int
	height  int
}

func New() Model {
	sp := spinner.New()
	sp.Spinner = spinner.Moon
	sp.Style = lipgloss.NewStyle().Foreground(theme.Green)
	return Model{
		state:   timerdto.StateOutput{State: "idle"},
		spinner: sp,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StateMsg:
		m.state = msg.State
		switch {
		case msg.State.Reason != "":
			m.reason = msg.State.Reason
		case msg.State.State == "incubating" || msg.State.State == "idle":
			m.reason = ""
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) State() timerdto.StateOutput {
	return m.state
}

func (m Model) View() string {
	st := m.state
	var sb strings.Builder

	label := theme.State(st.State).Render(capitalize(st.State))
	if st.State == "incubating" {
		label = m.spinner.View() + " " + label
	}
	sb.WriteString(label + "\n\n")
	sb.WriteString(theme.Clock.Render(st.RemainingText) + theme.Muted.Render(" until "+nextAnimal(st)) + "\n\n")
	sb.WriteString(bar(st.Progress, m.barWidth()) + fmt.Sprintf(" %3.0f%%", st.Progress*100) + "\n\n")
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("elapsed %s   chicken %s  cat %s  dog %s",
		clockText(st.Elapsed), clockText(st.Tier1), clockText(st.Tier2), clockText(st.Tier3))) + "\n")

	switch {
	case m.reason != "":
		sb.WriteString("\n" + theme.Bad.Render("interrupted by "+strings.ReplaceAll(m.reason, "_", " ")) + "\n")
	case st.State == "completed" && st.Result == "success":
		sb.WriteString("\n" + theme.Good.Render("well done, your animals are in the farm") + "\n")
	case st.State == "completed":
		sb.WriteString("\n" + theme.Bad.Render("too short to hatch anything") + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render(hints(st.State)))

	pane := theme.PaneActive.Render(sb.String())
	if m.width == 0 {
		return pane
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, pane)
}

func (m Model) barWidth() int {
	if m.width <= 0 {
		return defaultBarWidth
	}
	return max(10, min(defaultBarWidth+10, m.width-20))
}

func bar(progress float64, width int) string {
	progress = max(0, min(1, progress))
	filled := int(progress * float64(width))
	return theme.BarFilled.Render(strings.Repeat("█", filled)) +
		theme.BarEmpty.Render(strings.Repeat("░", width-filled))
}

func nextAnimal(st timerdto.StateOutput) string {
	switch {
	case st.Elapsed < st.Tier1:
		return "a chicken"
	case st.Elapsed < st.Tier2:
		return "a cat"
	case st.Elapsed < st.Tier3:
		return "a dog"
	default:
		return "the farm is full"
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func hints(state string) string {
	switch state {
	case "incubating":
		return "x stop  p pause  any other key counts as a touch"
	case "paused":
		return "r resume  x stop"
	default:
		return "s start  : command  tab farm  q quit"
	}
}

// clockText renders d as mm:ss, or h:mm:ss from one hour up.
func clockText(d time.Duration) string {
	d = d.Round(time.Second)
	if d < 0 {
		d = 0
	}
	h := int(d / time.Hour)
	mins := int(d/time.Minute) % 60
	secs := int(d/time.Second) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, mins, secs)
	}
	return fmt.Sprintf("%02d:%02d", mins, secs)
}
