// Package tui provides a Bubble Tea live view of the tracked sessions.
package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/PatrikHajek/time-tracker/internal/aggregate"
	"github.com/PatrikHajek/time-tracker/internal/datetime"
	"github.com/PatrikHajek/time-tracker/internal/session"
)

// ── Styles ────────────

var (
	// Title bar at the very top
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	tabSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Background(lipgloss.Color("235"))

	sectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	bulletStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	stopStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	skipStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	tagStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)
)

// ── Tab definitions ─────────────────

type tabID int

const (
	tabSummary tabID = iota
	tabMarks
	tabWeek
	tabCount
)

var tabNames = [tabCount]string{"Summary", "Marks", "Week"}

// ── Messages ────────────────────

// tickMsg refreshes running clocks.
type tickMsg time.Time

// ReloadMsg asks the model to re-read sessions from disk.
type ReloadMsg struct{}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// ── Model ────────────────────

// Loader returns every stored session, oldest first.
type Loader func() ([]*session.Session, error)

// Model is the root Bubble Tea model for the live view.
type Model struct {
	load      Loader
	now       func() time.Time
	dir       string
	agg       *aggregate.Aggregator
	err       error
	activeTab tabID
	viewports [tabCount]viewport.Model
	width     int
	height    int
	ready     bool
}

// New creates a model that reads sessions through load. dir is shown in
// the title bar.
func New(load Loader, dir string) Model {
	m := Model{load: load, now: datetime.Now, dir: dir}
	m.reload()
	return m
}

func (m *Model) reload() {
	sessions, err := m.load()
	if err != nil {
		m.agg, m.err = nil, err
		return
	}
	m.agg, m.err = aggregate.New(sessions)
}

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "l", "right":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab", "h", "left":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
		case "1", "2", "3":
			m.activeTab = tabID(msg.String()[0] - '1')
		case "r":
			m.reload()
			m.refreshViewports()
			return m, nil
		}
		var cmd tea.Cmd
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd

	case tickMsg:
		m.refreshViewports()
		return m, tick()

	case ReloadMsg:
		m.reload()
		m.refreshViewports()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.initViewports()
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	title := titleStyle.Width(m.width).Render("  timetracker  " + m.dir)

	var tabParts []string
	for i := tabID(0); i < tabCount; i++ {
		label := fmt.Sprintf(" %d %s ", i+1, tabNames[i])
		if i == m.activeTab {
			tabParts = append(tabParts, activeTabStyle.Render(label))
		} else {
			tabParts = append(tabParts, inactiveTabStyle.Render(label))
		}
		if i < tabCount-1 {
			tabParts = append(tabParts, tabSepStyle.Render("│"))
		}
	}
	tabRow := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Width(m.width).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, tabParts...))

	content := m.viewports[m.activeTab].View()

	hint := "  ←/→ tab  ↑/↓ scroll  1-3 jump  r reload  q quit"
	pct := fmt.Sprintf("%3.0f%%", m.viewports[m.activeTab].ScrollPercent()*100)
	pad := m.width - lipgloss.Width(hint) - len(pct) - 2
	if pad < 1 {
		pad = 1
	}
	statusBar := statusBarStyle.Width(m.width).Render(
		hint + strings.Repeat(" ", pad) + pct,
	)

	return lipgloss.JoinVertical(lipgloss.Left, title, tabRow, content, statusBar)
}

// ── Viewport management ───────────────────────────────────────────────────────

func (m *Model) initViewports() {
	// title(1) + tabRow(1) + statusBar(1) = 3 fixed rows
	vpHeight := m.height - 3
	if vpHeight < 1 {
		vpHeight = 1
	}
	for i := tabID(0); i < tabCount; i++ {
		vp := viewport.New(m.width, vpHeight)
		vp.SetContent(m.renderTab(i))
		m.viewports[i] = vp
	}
}

func (m *Model) refreshViewports() {
	if !m.ready {
		return
	}
	for i := tabID(0); i < tabCount; i++ {
		m.viewports[i].SetContent(m.renderTab(i))
	}
}

// ── Tab renderers ─────────────────────────────────────────────────────────────

func (m *Model) renderTab(t tabID) string {
	if m.err != nil {
		return heading("Error") + errorStyle.Render("  "+m.err.Error()) + "\n"
	}
	switch t {
	case tabSummary:
		return m.renderSummary()
	case tabMarks:
		return m.renderMarks()
	case tabWeek:
		return m.renderWeek()
	}
	return ""
}

func heading(s string) string {
	return "\n" + sectionHeader.Render("  "+s) + "\n\n"
}

func bullet(text string) string {
	return bulletStyle.Render("  •") + "  " + text + "\n"
}

func (m *Model) renderSummary() string {
	sum := m.agg.Summary(m.now())
	var sb strings.Builder
	if sum.Active {
		sb.WriteString(heading("Active Session"))
	} else {
		sb.WriteString(heading("No active session, last session"))
	}

	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(fmt.Sprintf("  %-10s", label)) + "  " + value + "\n")
	}
	row("Start:", sum.Start)
	row("Week:", timeStyle.Render(sum.WeekTime))
	row("Time:", timeStyle.Render(sum.SessionTime))
	row("Mark:", timeStyle.Render(sum.LastMarkAge))

	if sum.LastMarkContents != "" {
		sb.WriteString(heading("Last Mark"))
		sb.WriteString(indent(sum.LastMarkContents, "  ") + "\n")
	}
	return sb.String()
}

func (m *Model) renderMarks() string {
	latest := m.agg.Latest()
	marks := latest.Marks()

	var sb strings.Builder
	sb.WriteString(heading(fmt.Sprintf("Marks (%d) · %s", len(marks), filepath.Base(latest.Path()))))
	for i, mk := range marks {
		line := timeStyle.Render(datetime.FormatPretty(mk.Date()))
		if i > 0 {
			gap := datetime.GetTimeHR(datetime.GetTime(marks[i-1].Date(), mk.Date()))
			line += dimStyle.Render("  +" + gap)
		}
		switch mk.Attribute() {
		case session.AttributeStop:
			line += "  " + stopStyle.Render("END")
		case session.AttributeSkip:
			line += "  " + skipStyle.Render("SKIP")
		}
		for _, tag := range mk.Tags() {
			line += "  " + tagStyle.Render("#"+tag.String())
		}
		sb.WriteString(bullet(line))
		if c := mk.Contents(); c != "" {
			sb.WriteString(indent(c, "      ") + "\n")
		}
	}
	return sb.String()
}

func (m *Model) renderWeek() string {
	now := m.now()
	week := m.agg.Week()

	var sb strings.Builder
	sb.WriteString(heading(fmt.Sprintf("This Week (%d sessions)", len(week))))
	for _, s := range week {
		line := timeStyle.Render(datetime.FormatPretty(s.Start())) + "  " + datetime.GetTimeHR(s.TimeAt(now))
		if s.IsActive() {
			line += "  " + dimStyle.Render("running")
		}
		sb.WriteString(bullet(line))
	}
	sb.WriteString("\n" + labelStyle.Render("  Total:") + "  " + timeStyle.Render(datetime.GetTimeHR(m.agg.WeekTime(now))) + "\n")
	return sb.String()
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
