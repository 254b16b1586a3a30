package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/scamshield/scamshield/internal/api"
	"github.com/scamshield/scamshield/internal/config"
	"github.com/scamshield/scamshield/internal/models"
	"github.com/scamshield/scamshield/internal/session"
)

// voteSigner signs vote payloads locally. *wallet.Signer satisfies it.
type voteSigner interface {
	Address() string
	Sign(message []byte) (signature []byte, digest string, err error)
}

// detailModel shows one report and lets a connected wallet vote on it.
type detailModel struct {
	client  *api.Client
	session *session.Store
	signer  voteSigner
	styles  Styles

	report  *models.Report
	loading bool
	errMsg  string
	notice  string

	comment textinput.Model
	voting  bool
	voteVal bool

	width  int
	height int
}

func newDetailModel(client *api.Client, sess *session.Store, signer voteSigner, styles Styles) detailModel {
	comment := textinput.New()
	comment.Placeholder = "optional comment"
	comment.Width = 60
	return detailModel{client: client, session: sess, signer: signer, styles: styles, comment: comment}
}

func (m *detailModel) setSize(w, h int) {
	m.width, m.height = w, h
}

func (m detailModel) typing() bool {
	return m.comment.Focused()
}

// load fetches the report by ID.
func (m *detailModel) load(id string) tea.Cmd {
	m.report = nil
	m.loading = true
	m.errMsg = ""
	m.notice = ""
	m.voting = false
	m.comment.SetValue("")
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), config.APITimeout)
		defer cancel()
		report, err := client.GetReport(ctx, id)
		return reportLoadedMsg{report: report, err: err}
	}
}

func (m *detailModel) castVote() tea.Cmd {
	if m.report == nil {
		return nil
	}
	id := m.report.ID
	verified := m.voteVal
	comment := strings.TrimSpace(m.comment.Value())
	digest := m.signVote(id, verified)
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), config.APITimeout)
		defer cancel()
		v, err := client.VerifyReport(ctx, id, verified, comment, digest)
		return verifyDoneMsg{verification: v, err: err}
	}
}

// signVote signs the vote with the local keystore when its address is the
// connected wallet. The digest becomes the vote's transaction_hash; without
// a matching signer the vote is sent unsigned.
func (m *detailModel) signVote(id string, verified bool) string {
	if m.signer == nil || m.signer.Address() != m.session.Address() {
		return ""
	}
	payload := fmt.Appendf(nil, "verify %s %t", id, verified)
	_, digest, err := m.signer.Sign(payload)
	if err != nil {
		slog.Warn("vote signing failed", "report", id, "error", err)
		return ""
	}
	return digest
}

// update returns the new model, a command, and whether to go back to the
// listing.
func (m detailModel) update(msg tea.Msg) (detailModel, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case reportLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = describeError(msg.err)
			return m, nil, false
		}
		m.report = msg.report
		return m, nil, false

	case verifyDoneMsg:
		m.voting = false
		m.comment.Blur()
		if msg.err != nil {
			m.errMsg = describeError(msg.err)
			return m, nil, false
		}
		m.errMsg = ""
		m.notice = "Vote recorded."
		if m.report != nil {
			return m, m.load(m.report.ID), false
		}
		return m, nil, false

	case tea.KeyMsg:
		if m.comment.Focused() {
			switch msg.Type {
			case tea.KeyEsc:
				m.comment.Blur()
				return m, nil, false
			case tea.KeyEnter:
				m.comment.Blur()
				return m, m.castVote(), false
			}
			var cmd tea.Cmd
			m.comment, cmd = m.comment.Update(msg)
			return m, cmd, false
		}

		switch msg.String() {
		case "esc", "b":
			return m, nil, true
		case "v", "x":
			if !m.session.Connected() {
				m.errMsg = "Connect a wallet to vote."
				return m, nil, false
			}
			if m.report == nil || m.report.Status != models.StatusPending {
				m.errMsg = "Only pending reports accept votes."
				return m, nil, false
			}
			m.voteVal = msg.String() == "v"
			m.voting = true
			m.comment.Focus()
			return m, textinput.Blink, false
		}
	}
	return m, nil, false
}

func (m detailModel) view() string {
	var b strings.Builder

	if m.loading {
		b.WriteString(m.styles.Muted.Render("Loading report…"))
		return b.String()
	}
	if m.errMsg != "" {
		b.WriteString(m.styles.Error.Render(m.errMsg))
		b.WriteString("\n")
	}
	if m.report == nil {
		return b.String()
	}
	r := m.report

	b.WriteString(m.styles.Title.Render(r.Title))
	b.WriteString("\n")
	b.WriteString(m.styles.StatusBadge(r.Status))
	b.WriteString("  ")
	b.WriteString(m.styles.RiskBadge(r.RiskLevel))
	b.WriteString("\n\n")

	row := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(m.styles.FieldLabel.Render(label))
		b.WriteString(m.styles.Body.Render(value))
		b.WriteString("\n")
	}
	row("Scam type", r.ScamType.Label())
	row("Scammer", r.ScammerAddress)
	row("Reporter", shortAddress(r.ReporterAddress))
	row("Reported", r.CreatedAt.Format("2006-01-02 15:04"))
	row("Deadline", r.VerificationDeadline.Format("2006-01-02 15:04"))
	if r.TransactionAmount > 0 {
		row("Amount lost", fmt.Sprintf("%.2f SUI", r.TransactionAmount))
	}
	row("Digest", r.TransactionHash)
	row("Stake", fmt.Sprintf("%d SUI", r.StakeAmount))
	row("Votes", fmt.Sprintf("%d confirm / %d reject", r.VerificationCount, r.RejectionCount))

	b.WriteString("\n")
	b.WriteString(m.styles.Body.Render(r.Description))
	b.WriteString("\n")

	if len(r.Evidence) > 0 {
		b.WriteString("\n")
		b.WriteString(m.styles.Bold.Render("Evidence"))
		b.WriteString("\n")
		for _, ev := range r.Evidence {
			b.WriteString(m.styles.Muted.Render("  • " + ev.FileName))
			b.WriteString("\n")
		}
	}

	if len(r.Verifications) > 0 {
		b.WriteString("\n")
		b.WriteString(m.styles.Bold.Render("Verifications"))
		b.WriteString("\n")
		for _, v := range r.Verifications {
			verdict := m.styles.Success.Render("confirmed")
			if !v.Verified {
				verdict = m.styles.Error.Render("rejected")
			}
			b.WriteString(fmt.Sprintf("  %s %s %s\n", shortAddress(v.Verifier), verdict, m.styles.Muted.Render(v.Comment)))
		}
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Success.Render(m.notice))
	}

	b.WriteString("\n")
	if m.voting {
		b.WriteString(m.styles.Body.Render("Comment (enter to cast, esc to cancel): "))
		b.WriteString(m.comment.View())
	} else {
		b.WriteString(m.styles.Muted.Render("v confirm scam  x reject claim  b back"))
	}
	return b.String()
}
