package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/scamshield/scamshield/internal/api"
	"github.com/scamshield/scamshield/internal/config"
	"github.com/scamshield/scamshield/internal/models"
	"github.com/scamshield/scamshield/internal/reports"
)

// Filter option rings. The first entry is always the all-pass sentinel.
var (
	statusOptions = []string{reports.FilterAll, "pending", "verified", "rejected"}
	riskOptions   = []string{reports.FilterAll, "low", "medium", "high", "critical"}
	dateOptions   = []string{reports.FilterAll, reports.RangeDay, reports.RangeWeek, reports.RangeMonth}
)

func scamTypeOptions() []string {
	opts := []string{reports.FilterAll}
	for _, t := range models.AllScamTypes {
		opts = append(opts, string(t))
	}
	return opts
}

// reportsModel is the browser page: a server-fetched page of reports run
// through the local filter/search/sort pipeline on every keystroke.
type reportsModel struct {
	client *api.Client
	styles Styles

	search  textinput.Model
	filters reports.FilterState
	sortIdx int

	typeRing  []string
	typeIdx   int
	statusIdx int
	riskIdx   int
	dateIdx   int

	raw     []models.Report
	visible []models.Report
	cursor  int

	page     int
	count    int
	fetchSeq int
	loading  bool
	errMsg   string

	width  int
	height int
}

func newReportsModel(client *api.Client, styles Styles) reportsModel {
	search := textinput.New()
	search.Placeholder = "search title, address, type, description, digest"
	search.Width = 60
	return reportsModel{
		client:   client,
		styles:   styles,
		search:   search,
		filters:  reports.DefaultFilters(),
		typeRing: scamTypeOptions(),
		page:     1,
	}
}

func (m *reportsModel) setSize(w, h int) {
	m.width, m.height = w, h
}

func (m reportsModel) typing() bool {
	return m.search.Focused()
}

// refresh fetches the current page. Each fetch carries a sequence number;
// responses from superseded fetches are dropped so a slow earlier page can
// never overwrite a newer one.
func (m *reportsModel) refresh() tea.Cmd {
	m.fetchSeq++
	m.loading = true
	seq := m.fetchSeq
	page := m.page
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), config.APITimeout)
		defer cancel()
		result, err := client.ListReports(ctx, api.ReportQuery{Page: page})
		return reportsLoadedMsg{seq: seq, page: result, err: err}
	}
}

func (m *reportsModel) recompute() {
	m.visible = reports.ComputeVisible(m.raw, m.filters, m.search.Value(), reports.AllSortKeys[m.sortIdx], time.Now())
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// update returns the new model, a command, and the ID of a report to open
// ("" when staying on this page).
func (m reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd, string) {
	switch msg := msg.(type) {
	case reportsLoadedMsg:
		if msg.seq != m.fetchSeq {
			// A newer fetch is already in flight or landed.
			return m, nil, ""
		}
		m.loading = false
		if msg.err != nil {
			m.errMsg = describeError(msg.err)
			return m, nil, ""
		}
		m.errMsg = ""
		m.raw = msg.page.Results
		m.count = msg.page.Count
		m.recompute()
		return m, nil, ""

	case tea.KeyMsg:
		if m.search.Focused() {
			switch msg.Type {
			case tea.KeyEsc, tea.KeyEnter:
				m.search.Blur()
				return m, nil, ""
			}
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			m.recompute()
			return m, cmd, ""
		}

		switch msg.String() {
		case "/":
			m.search.Focus()
			return m, textinput.Blink, ""
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.visible)-1 {
				m.cursor++
			}
		case "enter":
			if m.cursor < len(m.visible) {
				return m, nil, m.visible[m.cursor].ID
			}
		case "s":
			m.sortIdx = (m.sortIdx + 1) % len(reports.AllSortKeys)
			m.recompute()
		case "T":
			m.typeIdx = (m.typeIdx + 1) % len(m.typeRing)
			m.filters.ScamType = m.typeRing[m.typeIdx]
			m.recompute()
		case "S":
			m.statusIdx = (m.statusIdx + 1) % len(statusOptions)
			m.filters.Status = statusOptions[m.statusIdx]
			m.recompute()
		case "R":
			m.riskIdx = (m.riskIdx + 1) % len(riskOptions)
			m.filters.RiskLevel = riskOptions[m.riskIdx]
			m.recompute()
		case "d":
			m.dateIdx = (m.dateIdx + 1) % len(dateOptions)
			m.filters.DateRange = dateOptions[m.dateIdx]
			m.recompute()
		case "c":
			m.filters = reports.DefaultFilters()
			m.typeIdx, m.statusIdx, m.riskIdx, m.dateIdx = 0, 0, 0, 0
			m.search.SetValue("")
			m.recompute()
		case "n":
			if m.page*config.ReportsPageSize < m.count {
				m.page++
				return m, m.refresh(), ""
			}
		case "p":
			if m.page > 1 {
				m.page--
				return m, m.refresh(), ""
			}
		case "r":
			return m, m.refresh(), ""
		}
	}
	return m, nil, ""
}

func (m reportsModel) view() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Scam Reports"))
	b.WriteString("  ")
	if m.loading {
		b.WriteString(m.styles.Muted.Render("loading…"))
	} else {
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("%d shown of %d (page %d)", len(m.visible), m.count, m.page)))
	}
	b.WriteString("\n")

	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("sort %s | type %s | status %s | risk %s | date %s",
		reports.AllSortKeys[m.sortIdx].Label(),
		m.filters.ScamType, m.filters.Status, m.filters.RiskLevel, m.filters.DateRange)))
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	if m.errMsg != "" {
		b.WriteString(m.styles.Error.Render(m.errMsg))
		b.WriteString("\n")
	}

	if len(m.visible) == 0 && !m.loading {
		b.WriteString(m.styles.Muted.Render("No reports match."))
		b.WriteString("\n")
	}

	for i, r := range m.visible {
		line := fmt.Sprintf("%-40s %-12s %s %s",
			truncate(r.Title, 40),
			r.ScamType.Label(),
			m.styles.StatusBadge(r.Status),
			m.styles.RiskBadge(r.RiskLevel),
		)
		if i == m.cursor {
			b.WriteString(m.styles.Selected.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("/ search  s sort  T type  S status  R risk  d date  c clear  n/p page  enter open  r reload"))
	return b.String()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 1 {
		return string(runes[:n])
	}
	return string(runes[:n-1]) + "…"
}

// describeError maps the client error taxonomy to a short user message.
func describeError(err error) string {
	switch {
	case api.IsAuthError(err):
		return "Session expired. Reconnect your wallet."
	case api.IsRetryable(err):
		return "The service is unavailable. Press r to retry."
	default:
		return err.Error()
	}
}
