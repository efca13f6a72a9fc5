package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	farmdto "focusfarm/internal/modules/farm/dto"
	settingsdto "focusfarm/internal/modules/settings/dto"
	timerdto "focusfarm/internal/modules/timer/dto"
	"focusfarm/internal/ui/components"
	"focusfarm/internal/ui/theme"
	farmview "focusfarm/internal/ui/views/farm"
	focusview "focusfarm/internal/ui/views/focus"
)

const (
	// QuitGrace bounds how long quitting waits for a running session to be
	// finalized before stopping it directly.
	QuitGrace = 2 * time.Second
	// ControlKeyGrace covers the press and release of a timer control key,
	// which a desktop-wide input observer would otherwise read as a touch.
	ControlKeyGrace = 500 * time.Millisecond
)

// ─── ports ───────────────────────────────────────────────────────────────────

type timerPort interface {
	Start(ctx context.Context) (timerdto.StateOutput, error)
	Stop(ctx context.Context) (timerdto.StateOutput, error)
	Pause(ctx context.Context) (timerdto.StateOutput, error)
	Resume(ctx context.Context) (timerdto.StateOutput, error)
	Reset(ctx context.Context) (timerdto.StateOutput, error)
	Current(ctx context.Context) (timerdto.StateOutput, error)
	Watch(ctx context.Context) <-chan timerdto.StateOutput
	SetFocusVisible(visible bool)
}

type farmPort interface {
	farmview.FarmPort
	ResetCycle(ctx context.Context, reason string) (farmdto.CycleOutput, error)
}

type settingsPort interface {
	Get(ctx context.Context) (settingsdto.Settings, error)
	Update(ctx context.Context, input settingsdto.UpdateInput) (settingsdto.Settings, error)
}

// lifecyclePort and inputPort feed the interruption sources.
type lifecyclePort interface {
	ActivityStarted()
	ActivityStopped(changingConfig bool)
}

type inputPort interface {
	Touch(at time.Time)
	Suppress(until time.Time)
}

// Ports groups everything the model talks to.
type Ports struct {
	Timer     timerPort
	Farm      farmPort
	Settings  settingsPort
	Lifecycle lifecyclePort
	Input     inputPort
}

// ─── tabs ────────────────────────────────────────────────────────────────────

type tabID int

const (
	tabFocus tabID = iota
	tabFarm
	tabCount
)

var tabLabels = [tabCount]string{"Focus", "Farm"}

// ─── async messages ──────────────────────────────────────────────────────────

type watchClosedMsg struct{}

type timerDoneMsg struct {
	op  string
	out timerdto.StateOutput
	err error
}

type settingsLoadedMsg struct {
	settings settingsdto.Settings
	err      error
}

type cycleResetMsg struct {
	cycle farmdto.CycleOutput
	err   error
}

type quitGraceMsg struct{}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Start   key.Binding
	Stop    key.Binding
	Pause   key.Binding
	Resume  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch view")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Start:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
		Stop:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop")),
		Pause:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		Resume:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resume")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Stop, k.Tab, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Stop, k.Pause, k.Resume},
		{k.Tab, k.Palette, k.Help, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. While a session is incubating, any key
// or click on the focus view that is not a timer control counts as a touch,
// and leaving the focus view (switching tabs or losing terminal focus)
// counts as sending the app to the background.
type Model struct {
	ports  Ports
	states <-chan timerdto.StateOutput

	focusView focusview.Model
	farmView  farmview.Model

	activeTab   tabID
	keys        keyMap
	help        help.Model
	showHelp    bool
	palette     components.Palette
	settings    settingsdto.Settings
	termFocused bool
	visible     bool
	quitting    bool
	sized       bool
	status      string
	width       int
	height      int
}

// NewModel subscribes to timer updates for the lifetime of ctx.
func NewModel(ctx context.Context, ports Ports) Model {
	return Model{
		ports:       ports,
		states:      ports.Timer.Watch(ctx),
		focusView:   focusview.New(),
		farmView:    farmview.New(ports.Farm),
		activeTab:   tabFocus,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(),
		termFocused: true,
		visible:     true,
		status:      "ready",
	}
}

func (m Model) Init() tea.Cmd {
	if m.ports.Lifecycle != nil {
		m.ports.Lifecycle.ActivityStarted()
	}
	return tea.Batch(
		m.focusView.Init(),
		m.farmView.Init(),
		m.waitStateCmd(),
		m.currentCmd(),
		m.loadSettingsCmd(),
	)
}

// ─── update ──────────────────────────────────────────────────────────────────

// Update lets an open palette take every key while timer updates and other
// async results keep flowing to the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if !m.palette.Visible() {
		return m.update(msg)
	}
	var cmd tea.Cmd
	m.palette, cmd = m.palette.Update(msg)
	if _, ok := msg.(tea.KeyMsg); ok {
		return m, cmd
	}
	next, rest := m.update(msg)
	return next, tea.Batch(cmd, rest)
}

func (m Model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// A resize rebuilds the screen without the user leaving it.
		if m.sized && m.ports.Lifecycle != nil {
			m.ports.Lifecycle.ActivityStopped(true)
			m.ports.Lifecycle.ActivityStarted()
		}
		m.sized = true
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 72))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case tea.FocusMsg:
		m.termFocused = true
		m.syncVisibility()
		return m, nil

	case tea.BlurMsg:
		m.termFocused = false
		m.syncVisibility()
		return m, nil

	case focusview.StateMsg:
		return m.applyState(msg)

	case farmview.RefreshMsg, farmview.LoadedMsg:
		var cmd tea.Cmd
		m.farmView, cmd = m.farmView.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		var focusCmd, farmCmd tea.Cmd
		m.focusView, focusCmd = m.focusView.Update(msg)
		m.farmView, farmCmd = m.farmView.Update(msg)
		return m, tea.Batch(focusCmd, farmCmd)

	case watchClosedMsg:
		if m.quitting {
			return m, tea.Quit
		}
		m.status = "timer stopped publishing"
		return m, nil

	case timerDoneMsg:
		if msg.err != nil {
			m.status = msg.op + " failed: " + msg.err.Error()
			return m, nil
		}
		var cmd tea.Cmd
		m.focusView, cmd = m.focusView.Update(focusview.StateMsg{State: msg.out})
		if m.quitting && !msg.out.Running() {
			return m, tea.Quit
		}
		return m, cmd

	case settingsLoadedMsg:
		if msg.err != nil {
			m.status = "settings: " + msg.err.Error()
		} else {
			m.settings = msg.settings
		}
		return m, nil

	case cycleResetMsg:
		if msg.err != nil {
			m.status = "farm reset failed: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("farm reset, %d animals archived", msg.cycle.Chickens+msg.cycle.Cats+msg.cycle.Dogs)
		return m, m.refreshFarm()

	case quitGraceMsg:
		if m.focusView.State().Running() {
			return m, tea.Sequence(m.timerCmd("stop", m.ports.Timer.Stop), tea.Quit)
		}
		return m, tea.Quit

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.MouseMsg:
		if m.activeTab == tabFocus && msg.Action == tea.MouseActionPress {
			m.touch()
			return m, nil
		}

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.activeTab == tabFarm && m.farmView.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		case key.Matches(msg, m.keys.Tab):
			if msg.String() == "shift+tab" {
				m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			} else {
				m.activeTab = (m.activeTab + 1) % tabCount
			}
			m.syncVisibility()
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return m, nil
		case key.Matches(msg, m.keys.Palette):
			cmd := m.palette.Open()
			return m, cmd
		}
		if m.activeTab == tabFocus {
			return m, m.focusKey(msg)
		}
	}

	var cmd tea.Cmd
	switch m.activeTab {
	case tabFocus:
		m.focusView, cmd = m.focusView.Update(msg)
	case tabFarm:
		m.farmView, cmd = m.farmView.Update(msg)
	}
	return m, cmd
}

func (m Model) focusKey(msg tea.KeyMsg) tea.Cmd {
	t := m.ports.Timer
	var (
		op string
		fn func(context.Context) (timerdto.StateOutput, error)
	)
	switch {
	case key.Matches(msg, m.keys.Start):
		op, fn = "start", t.Start
	case key.Matches(msg, m.keys.Stop):
		op, fn = "stop", t.Stop
	case key.Matches(msg, m.keys.Pause):
		op, fn = "pause", t.Pause
	case key.Matches(msg, m.keys.Resume):
		op, fn = "resume", t.Resume
	default:
		m.touch()
		return nil
	}
	m.suppressInput()
	return m.timerCmd(op, fn)
}

func (m Model) applyState(msg focusview.StateMsg) (tea.Model, tea.Cmd) {
	prev := m.focusView.State()
	var cmd tea.Cmd
	m.focusView, cmd = m.focusView.Update(msg)
	cmds := []tea.Cmd{cmd, m.waitStateCmd()}

	st := msg.State
	if st.State == "completed" && prev.State != "completed" {
		if st.Result == "success" {
			m.status = "session complete"
		} else {
			m.status = "session interrupted"
		}
		cmds = append(cmds, m.refreshFarm())
	}
	if m.quitting && !st.Running() {
		return m, tea.Quit
	}
	return m, tea.Batch(cmds...)
}

// quit treats leaving the app like the last screen going away. A running
// session then ends through the regular interruption path.
func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.ports.Lifecycle != nil {
		m.ports.Lifecycle.ActivityStopped(false)
	}
	st := m.focusView.State()
	switch st.State {
	case "incubating":
		m.quitting = true
		m.status = "finishing session…"
		return m, tea.Tick(QuitGrace, func(time.Time) tea.Msg { return quitGraceMsg{} })
	case "paused":
		m.quitting = true
		return m, m.timerCmd("stop", m.ports.Timer.Stop)
	}
	return m, tea.Quit
}

func (m *Model) touch() {
	if m.ports.Input != nil {
		m.ports.Input.Touch(time.Time{})
	}
}

func (m *Model) suppressInput() {
	if m.ports.Input != nil {
		m.ports.Input.Suppress(time.Now().Add(ControlKeyGrace))
	}
}

func (m *Model) syncVisibility() {
	visible := m.termFocused && m.activeTab == tabFocus
	if visible == m.visible {
		return
	}
	m.visible = visible
	m.ports.Timer.SetFocusVisible(visible)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(1, m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar))

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.activeTab == tabFarm:
		content = m.farmView.View()
	default:
		content = m.focusView.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + tabLabels[i] + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + tabLabels[i] + " ")
		}
	}
	bar := "focusfarm  " + strings.Join(parts, theme.Muted.Render(" │ "))
	if st := m.focusView.State(); st.Running() {
		bar += "   " + theme.State(st.State).Render("● "+st.RemainingText)
	}
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := theme.Muted.Render(m.settingsSummary() + "  ?:help  q:quit")
	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

func (m Model) settingsSummary() string {
	s := m.settings
	if s.CycleType == "" {
		return ""
	}
	stage := fmt.Sprintf("%dm", s.StageMinutes)
	if s.TestMode {
		stage = "test"
	}
	pause := "no pause"
	if s.AllowPause {
		pause = "pause ok"
	}
	return fmt.Sprintf("stage %s · %s · %s", stage, s.CycleType, pause)
}

// ─── palette execution ───────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	t := m.ports.Timer
	arg := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
	if strings.HasPrefix(parts[0], "timer:") {
		m.suppressInput()
	}

	switch parts[0] {
	case "timer:start":
		return m, m.timerCmd("start", t.Start)
	case "timer:stop":
		return m, m.timerCmd("stop", t.Stop)
	case "timer:pause":
		return m, m.timerCmd("pause", t.Pause)
	case "timer:resume":
		return m, m.timerCmd("resume", t.Resume)
	case "timer:reset":
		return m, m.timerCmd("reset", t.Reset)

	case "farm:refresh":
		return m, m.refreshFarm()
	case "farm:reset":
		return m, m.resetFarmCmd(arg)

	case "settings:stage":
		minutes, err := strconv.Atoi(arg)
		if err != nil {
			m.status = "usage: settings:stage <minutes>"
			return m, nil
		}
		return m, m.updateSettingsCmd(settingsdto.UpdateInput{StageMinutes: &minutes})
	case "settings:cycle":
		if arg == "" {
			m.status = "usage: settings:cycle <type>"
			return m, nil
		}
		return m, m.updateSettingsCmd(settingsdto.UpdateInput{CycleType: &arg})
	case "settings:pause", "settings:test":
		on, ok := parseSwitch(arg)
		if !ok {
			m.status = "usage: " + parts[0] + " <on|off>"
			return m, nil
		}
		if parts[0] == "settings:pause" {
			return m, m.updateSettingsCmd(settingsdto.UpdateInput{AllowPause: &on})
		}
		return m, m.updateSettingsCmd(settingsdto.UpdateInput{TestMode: &on})
	}
	m.status = "unknown command: " + parts[0]
	return m, nil
}

func parseSwitch(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "on", "true", "yes":
		return true, true
	case "off", "false", "no":
		return false, true
	}
	return false, false
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.focusView, _ = m.focusView.Update(sz)
	m.farmView, _ = m.farmView.Update(sz)
}

func (m Model) refreshFarm() tea.Cmd {
	return func() tea.Msg { return farmview.RefreshMsg{} }
}

// ─── async commands ──────────────────────────────────────────────────────────

func (m Model) waitStateCmd() tea.Cmd {
	states := m.states
	return func() tea.Msg {
		st, ok := <-states
		if !ok {
			return watchClosedMsg{}
		}
		return focusview.StateMsg{State: st}
	}
}

func (m Model) currentCmd() tea.Cmd {
	return m.timerCmd("load", m.ports.Timer.Current)
}

func (m Model) timerCmd(op string, fn func(context.Context) (timerdto.StateOutput, error)) tea.Cmd {
	return func() tea.Msg {
		out, err := fn(context.Background())
		return timerDoneMsg{op: op, out: out, err: err}
	}
}

func (m Model) loadSettingsCmd() tea.Cmd {
	return func() tea.Msg {
		if m.ports.Settings == nil {
			return nil
		}
		s, err := m.ports.Settings.Get(context.Background())
		return settingsLoadedMsg{settings: s, err: err}
	}
}

func (m Model) updateSettingsCmd(input settingsdto.UpdateInput) tea.Cmd {
	return func() tea.Msg {
		if m.ports.Settings == nil {
			return nil
		}
		s, err := m.ports.Settings.Update(context.Background(), input)
		return settingsLoadedMsg{settings: s, err: err}
	}
}

func (m Model) resetFarmCmd(reason string) tea.Cmd {
	return func() tea.Msg {
		if m.ports.Farm == nil {
			return cycleResetMsg{err: fmt.Errorf("farm not configured")}
		}
		cycle, err := m.ports.Farm.ResetCycle(context.Background(), reason)
		return cycleResetMsg{cycle: cycle, err: err}
	}
}
