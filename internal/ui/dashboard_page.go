package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/scamshield/scamshield/internal/api"
	"github.com/scamshield/scamshield/internal/config"
	"github.com/scamshield/scamshield/internal/models"
)

// dashboardModel shows platform stats plus the connected wallet's own
// reports and votable queue.
type dashboardModel struct {
	client *api.Client
	styles Styles

	stats   *models.DashboardStats
	mine    []models.Report
	pending []models.Report

	loading bool
	errMsg  string

	width  int
	height int
}

func newDashboardModel(client *api.Client, styles Styles) dashboardModel {
	return dashboardModel{client: client, styles: styles}
}

func (m *dashboardModel) setSize(w, h int) {
	m.width, m.height = w, h
}

// refresh loads the stats, and the per-wallet views when connected. A
// disconnected refresh drops the previous wallet's lists.
func (m *dashboardModel) refresh(connected bool) tea.Cmd {
	m.loading = true
	if !connected {
		m.mine = nil
		m.pending = nil
	}
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), config.APITimeout)
		defer cancel()

		stats, err := client.DashboardStats(ctx)
		if err != nil {
			return statsLoadedMsg{err: err}
		}
		msg := statsLoadedMsg{stats: stats}
		if connected {
			if msg.mine, err = client.MyReports(ctx); err != nil {
				msg.err = err
				return msg
			}
			if msg.pending, err = client.PendingVerifications(ctx); err != nil {
				msg.err = err
				return msg
			}
		}
		return msg
	}
}

func (m dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if msg, ok := msg.(statsLoadedMsg); ok {
		m.loading = false
		if msg.err != nil {
			m.errMsg = describeError(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.stats = msg.stats
		if msg.mine != nil {
			m.mine = msg.mine.Results
		}
		if msg.pending != nil {
			m.pending = msg.pending.Results
		}
	}
	return m, nil
}

func (m dashboardModel) view() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Community Dashboard"))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(m.styles.Muted.Render("Loading…"))
		return b.String()
	}
	if m.errMsg != "" {
		b.WriteString(m.styles.Error.Render(m.errMsg))
		return b.String()
	}
	if m.stats == nil {
		b.WriteString(m.styles.Muted.Render("No data yet."))
		return b.String()
	}

	s := m.stats
	stat := func(label string, value string) string {
		return m.styles.Card.Render(m.styles.Muted.Render(label) + "\n" + m.styles.Bold.Render(value))
	}
	b.WriteString(fmt.Sprintf("%s %s %s %s\n",
		stat("Total reports", fmt.Sprintf("%d", s.TotalReports)),
		stat("Verified", fmt.Sprintf("%d", s.VerifiedReports)),
		stat("Pending", fmt.Sprintf("%d", s.PendingReports)),
		stat("Rejected", fmt.Sprintf("%d", s.RejectedReports)),
	))
	b.WriteString(fmt.Sprintf("%s %s %s\n",
		stat("Active verifiers", fmt.Sprintf("%d", s.ActiveVerifiers)),
		stat("Protected wallets", fmt.Sprintf("%d", s.ProtectedWallets)),
		stat("Prevented losses", s.PreventedValue),
	))

	if len(m.mine) > 0 {
		b.WriteString("\n")
		b.WriteString(m.styles.Bold.Render("My Reports"))
		b.WriteString("\n")
		for _, r := range m.mine {
			b.WriteString(fmt.Sprintf("  %-40s %s\n", truncate(r.Title, 40), m.styles.StatusBadge(r.Status)))
		}
	}

	if len(m.pending) > 0 {
		b.WriteString("\n")
		b.WriteString(m.styles.Bold.Render("Awaiting Your Verification"))
		b.WriteString("\n")
		for _, r := range m.pending {
			b.WriteString(fmt.Sprintf("  %-40s %s\n", truncate(r.Title, 40), m.styles.RiskBadge(r.RiskLevel)))
		}
	}
	return b.String()
}
