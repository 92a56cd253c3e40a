// Package traceview provides a Bubble Tea view for browsing a session's
// event timeline and its correlations. Tab cycles between the timeline,
// correlation, and stats panes.
package traceview

import (
	"fmt"
	"math"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/tracelens/internal/correlation"
	"github.com/abelbrown/tracelens/internal/session"
	"github.com/abelbrown/tracelens/internal/telemetry"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#58a6ff"))

	statsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8b949e"))

	dividerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#30363d"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d2a8ff"))

	strongStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3fb950"))

	weakStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d29922"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#484f58"))

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#e6edf3"))

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#484f58"))
)

type pane int

const (
	paneTimeline pane = iota
	paneCorrelations
	paneStats
)

var paneNames = []string{"timeline", "correlations", "stats"}

// Model is the Bubble Tea model for the session viewer.
type Model struct {
	sess         *session.Session
	correlations []correlation.Correlation
	stats        correlation.Stats

	pane     pane
	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

// New creates a viewer for a loaded session. Correlations and stats are
// computed once up front; the panes only render them.
func New(sess *session.Session, engine *correlation.Engine) Model {
	return Model{
		sess:         sess,
		correlations: engine.Correlate(sess.Events),
		stats:        engine.Statistics(sess.Events),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.pane = (m.pane + 1) % 3
			m.viewport.SetContent(m.paneContent())
			m.viewport.GotoTop()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		headerHeight := 3
		footerHeight := 2
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.viewport.SetContent(m.paneContent())
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading session..."
	}

	var b strings.Builder

	header := fmt.Sprintf("SESSION %s", m.sess.ID)
	b.WriteString(titleStyle.Render(header))
	b.WriteString("  ")
	b.WriteString(statsStyle.Render(fmt.Sprintf("%d events, %d correlations", len(m.sess.Events), m.stats.Total)))
	b.WriteString("\n")

	var tabs []string
	for i, name := range paneNames {
		if pane(i) == m.pane {
			tabs = append(tabs, tabActiveStyle.Render(name))
		} else {
			tabs = append(tabs, tabInactiveStyle.Render(name))
		}
	}
	b.WriteString(strings.Join(tabs, dimStyle.Render(" | ")))
	b.WriteString("\n")
	b.WriteString(dividerStyle.Render(strings.Repeat("─", min(m.width, 60))))
	b.WriteString("\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("tab:switch pane  ↑/↓:scroll  q:quit"))

	return b.String()
}

func (m Model) paneContent() string {
	switch m.pane {
	case paneTimeline:
		return m.renderTimeline()
	case paneCorrelations:
		return m.renderCorrelations()
	default:
		return m.renderStats()
	}
}

func (m Model) renderTimeline() string {
	if len(m.sess.Events) == 0 {
		return dimStyle.Render("No events in session")
	}

	events := make([]telemetry.Event, len(m.sess.Events))
	copy(events, m.sess.Events)
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i].Timestamp, events[j].Timestamp
		if math.IsNaN(a) {
			return false
		}
		if math.IsNaN(b) {
			return true
		}
		return a < b
	})

	var b strings.Builder
	for _, ev := range events {
		b.WriteString(dimStyle.Render(formatTimestamp(ev.Timestamp)))
		b.WriteString(" ")
		b.WriteString(typeStyle.Render(fmt.Sprintf("%-15s", ev.Type)))
		b.WriteString(" ")
		b.WriteString(ev.ID)
		if len(ev.Data) > 0 {
			b.WriteString(" ")
			b.WriteString(dimStyle.Render(formatData(ev.Data)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderCorrelations() string {
	if len(m.correlations) == 0 {
		return dimStyle.Render("No correlations above threshold")
	}

	var b strings.Builder
	for _, c := range m.correlations {
		conf := fmt.Sprintf("%.2f", c.Confidence)
		if c.Confidence >= 0.8 {
			b.WriteString(strongStyle.Render(conf))
		} else {
			b.WriteString(weakStyle.Render(conf))
		}
		b.WriteString(" ")
		b.WriteString(fmt.Sprintf("%s → %s", c.SourceID, c.TargetID))
		b.WriteString(" ")
		b.WriteString(typeStyle.Render(c.Type))
		b.WriteString(" ")
		b.WriteString(dimStyle.Render(fmt.Sprintf("+%.0fms", c.TimeDeltaMS)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderStats() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Total correlations:   %d\n", m.stats.Total))
	b.WriteString(fmt.Sprintf("Average confidence:   %.3f\n", m.stats.AvgConfidence))
	b.WriteString(fmt.Sprintf("Average delta:        %.1fms\n", m.stats.AvgTimeDeltaMS))

	if len(m.stats.ByType) > 0 {
		b.WriteString("\nBy type:\n")
		types := make([]string, 0, len(m.stats.ByType))
		for t := range m.stats.ByType {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			b.WriteString(fmt.Sprintf("  %-30s %d\n", t, m.stats.ByType[t]))
		}
	}
	return b.String()
}

// Helper functions

func formatTimestamp(ts float64) string {
	if math.IsNaN(ts) {
		return "     NaN"
	}
	if math.IsInf(ts, 1) {
		return "    +Inf"
	}
	if math.IsInf(ts, -1) {
		return "    -Inf"
	}
	return fmt.Sprintf("%8.0f", ts)
}

func formatData(data map[string]string) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+data[k])
	}
	return strings.Join(pairs, " ")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
