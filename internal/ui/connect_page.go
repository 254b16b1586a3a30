package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/scamshield/scamshield/internal/session"
	"github.com/scamshield/scamshield/internal/validate"
)

// connectModel is the landing page: paste a Sui address to connect, or
// disconnect the current one.
type connectModel struct {
	session *session.Store
	styles  Styles
	input   textinput.Model
	errMsg  string
}

func newConnectModel(sess *session.Store, styles Styles) connectModel {
	in := textinput.New()
	in.Placeholder = "0x… wallet address"
	in.CharLimit = 66
	in.Width = 70
	in.Focus()
	return connectModel{session: sess, styles: styles, input: in}
}

func (m connectModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m connectModel) typing() bool {
	return m.input.Focused()
}

// update returns the new model, a command, and whether a wallet was just
// connected.
func (m connectModel) update(msg tea.Msg) (connectModel, tea.Cmd, bool) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEnter {
		addr := strings.TrimSpace(m.input.Value())
		if err := validate.Address(addr); err != nil {
			m.errMsg = "Enter a valid Sui address: 0x followed by 64 hex characters."
			return m, nil, false
		}
		m.session.SetAddress(addr)
		m.errMsg = ""
		m.input.SetValue("")
		return m, nil, true
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd, false
}

func (m connectModel) view() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Connect Wallet"))
	b.WriteString("\n\n")

	if m.session.Connected() {
		b.WriteString(m.styles.Body.Render("Connected as "))
		b.WriteString(m.styles.Bold.Render(m.session.Address()))
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render("Press D to disconnect, or enter a new address below."))
		b.WriteString("\n\n")
	} else {
		b.WriteString(m.styles.Muted.Render("Reports can be browsed without a wallet; submitting and voting require one."))
		b.WriteString("\n\n")
	}

	b.WriteString(m.input.View())
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.FieldError.Render(m.errMsg))
	}
	return b.String()
}
