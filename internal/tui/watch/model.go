// Package watch is the terminal monitor behind `chirpgw watch`. It polls the
// observability API and renders recent relay activity.
package watch

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mattjoyce/chirpgw/internal/events"
)

const pollInterval = 3 * time.Second

// Model is the bubbletea model for the watch screen.
type Model struct {
	client *Client

	width  int
	height int

	health   healthMsg
	activity []events.Activity
	lastErr  error

	activityTable table.Model
}

// New creates the watch model.
func New(apiURL, apiKey string) *Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "When", Width: 10},
			{Title: "Space", Width: 16},
			{Title: "Query", Width: 20},
			{Title: "Outcome", Width: 14},
			{Title: "Results", Width: 7},
			{Title: "ms", Width: 6},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("24")).
		Bold(false)
	t.SetStyles(s)

	return &Model{
		client:        NewClient(apiURL, apiKey),
		activityTable: t,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.client.fetchHealth,
		m.client.fetchActivity,
		tick(),
		tea.EnterAltScreen,
	)
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.activityTable.SetWidth(m.width - 6)

	case tickMsg:
		return m, tea.Batch(m.client.fetchHealth, m.client.fetchActivity, tick())

	case healthMsg:
		m.health = msg
		m.lastErr = nil

	case activityMsg:
		m.activity = msg
		m.lastErr = nil
		m.updateTable()

	case errMsg:
		m.lastErr = msg.err
	}

	m.activityTable, cmd = m.activityTable.Update(msg)
	return m, cmd
}

// updateTable rebuilds table rows, newest first.
func (m *Model) updateTable() {
	rows := make([]table.Row, 0, len(m.activity))
	for i := len(m.activity) - 1; i >= 0; i-- {
		a := m.activity[i]
		rows = append(rows, table.Row{
			a.At.Local().Format("15:04:05"),
			a.SpaceID,
			a.Query,
			a.Outcome,
			fmt.Sprintf("%d", a.Results),
			fmt.Sprintf("%d", a.DurationMS),
		})
	}
	m.activityTable.SetRows(rows)
}

func (m Model) View() string {
	header := m.renderHeader()
	body := borderStyle.Render(m.activityTable.View())
	help := helpStyle.Render("q: quit")

	return docStyle.Render(header + "\n" + body + "\n" + help)
}

func (m Model) renderHeader() string {
	status := statusEmpty.Render("connecting...")
	if m.lastErr != nil {
		status = statusFailed.Render("unreachable: " + m.lastErr.Error())
	} else if m.health.Status != "" {
		status = statusOK.Render(m.health.Status)
	}

	uptime := time.Duration(m.health.UptimeSeconds) * time.Second

	return titleStyle.Render("chirpgw watch") +
		fmt.Sprintf("  status: %s  uptime: %s  queue: %d",
			status, uptime, m.health.QueueDepth)
}
