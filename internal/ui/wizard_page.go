package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/scamshield/scamshield/internal/api"
	"github.com/scamshield/scamshield/internal/config"
	"github.com/scamshield/scamshield/internal/models"
	"github.com/scamshield/scamshield/internal/wizard"
)

// Step 1 input order.
const (
	fieldTitle = iota
	fieldScammer
	fieldDescription
	fieldContact
	fieldAmount
	fieldDigest
	fieldCount
)

// wizardModel drives the submission wizard. Step one collects the details,
// step two attaches evidence files by path, step three picks the stake and
// submits.
type wizardModel struct {
	wiz    *wizard.Wizard
	styles Styles

	inputs   []textinput.Model
	focusIdx int
	typeIdx  int

	evidencePath textinput.Model
	spin         spinner.Model

	errMsg string
	notice string
}

func newWizardModel(wiz *wizard.Wizard, styles Styles) wizardModel {
	labels := []string{
		"Report title",
		"Scammer address (0x…)",
		"What happened (min 30 chars)",
		"Scammer contact info (optional)",
		"Amount lost in SUI (optional)",
		"Transaction digest (optional)",
	}
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		in := textinput.New()
		in.Placeholder = labels[i]
		in.Width = 64
		inputs[i] = in
	}
	inputs[fieldTitle].Focus()
	inputs[fieldScammer].CharLimit = 66

	evidencePath := textinput.New()
	evidencePath.Placeholder = "path to evidence file"
	evidencePath.Width = 64

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return wizardModel{
		wiz:          wiz,
		styles:       styles,
		inputs:       inputs,
		evidencePath: evidencePath,
		spin:         spin,
	}
}

func (m wizardModel) typing() bool {
	for i := range m.inputs {
		if m.inputs[i].Focused() {
			return true
		}
	}
	return m.evidencePath.Focused()
}

// syncForm copies the inputs into the wizard form.
func (m *wizardModel) syncForm() {
	f := m.wiz.Form()
	f.Title = strings.TrimSpace(m.inputs[fieldTitle].Value())
	f.ScammerAddress = strings.TrimSpace(m.inputs[fieldScammer].Value())
	f.Description = strings.TrimSpace(m.inputs[fieldDescription].Value())
	f.ContactInfo = strings.TrimSpace(m.inputs[fieldContact].Value())
	f.TransactionHash = strings.TrimSpace(m.inputs[fieldDigest].Value())
	f.ScamType = models.AllScamTypes[m.typeIdx]
	f.TransactionAmount, _ = strconv.ParseFloat(strings.TrimSpace(m.inputs[fieldAmount].Value()), 64)
	m.wiz.SetForm(f)
}

func (m *wizardModel) submit() tea.Cmd {
	wiz := m.wiz
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), config.APITimeout)
		defer cancel()
		report, err := wiz.Submit(ctx)
		return submitDoneMsg{report: report, err: err}
	}
}

// update returns the new model, a command, and the created report ID once a
// submission succeeds ("" otherwise).
func (m wizardModel) update(msg tea.Msg) (wizardModel, tea.Cmd, string) {
	switch msg := msg.(type) {
	case submitDoneMsg:
		if msg.err != nil {
			m.errMsg = describeSubmitError(msg.err, m.wiz.FieldErrors())
			return m, nil, ""
		}
		return m, nil, msg.report.ID

	case spinner.TickMsg:
		if !m.wiz.Submitting() {
			return m, nil, ""
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd, ""

	case tea.KeyMsg:
		switch m.wiz.Step() {
		case wizard.StepDetails:
			return m.updateDetails(msg)
		case wizard.StepEvidence:
			return m.updateEvidence(msg)
		case wizard.StepStake:
			return m.updateStake(msg)
		}
	}
	return m, nil, ""
}

func (m wizardModel) updateDetails(msg tea.KeyMsg) (wizardModel, tea.Cmd, string) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyEnter:
		m.inputs[m.focusIdx].Blur()
		m.focusIdx = (m.focusIdx + 1) % fieldCount
		m.inputs[m.focusIdx].Focus()
		return m, textinput.Blink, ""
	case tea.KeyShiftTab:
		m.inputs[m.focusIdx].Blur()
		m.focusIdx = (m.focusIdx + fieldCount - 1) % fieldCount
		m.inputs[m.focusIdx].Focus()
		return m, textinput.Blink, ""
	case tea.KeyCtrlT:
		m.typeIdx = (m.typeIdx + 1) % len(models.AllScamTypes)
		return m, nil, ""
	case tea.KeyCtrlN:
		m.syncForm()
		if err := m.wiz.Next(); err != nil {
			m.errMsg = fieldErrorSummary(m.wiz.FieldErrors())
			return m, nil, ""
		}
		m.errMsg = ""
		m.evidencePath.Focus()
		return m, textinput.Blink, ""
	}

	var cmd tea.Cmd
	m.inputs[m.focusIdx], cmd = m.inputs[m.focusIdx].Update(msg)
	return m, cmd, ""
}

func (m wizardModel) updateEvidence(msg tea.KeyMsg) (wizardModel, tea.Cmd, string) {
	switch msg.Type {
	case tea.KeyEnter:
		path := strings.TrimSpace(m.evidencePath.Value())
		if path == "" {
			return m, nil, ""
		}
		data, err := os.ReadFile(path)
		if err != nil {
			m.errMsg = "Cannot read " + path
			return m, nil, ""
		}
		if err := m.wiz.AddEvidence(api.EvidenceFile{Name: filepath.Base(path), Data: data}); err != nil {
			m.errMsg = err.Error()
			return m, nil, ""
		}
		m.errMsg = ""
		m.notice = filepath.Base(path) + " attached"
		m.evidencePath.SetValue("")
		return m, nil, ""
	case tea.KeyCtrlN:
		m.evidencePath.Blur()
		if err := m.wiz.Next(); err != nil {
			m.errMsg = fieldErrorSummary(m.wiz.FieldErrors())
			m.evidencePath.Focus()
			return m, nil, ""
		}
		m.errMsg = ""
		m.notice = ""
		return m, nil, ""
	case tea.KeyCtrlB:
		m.evidencePath.Blur()
		m.wiz.Back()
		m.inputs[m.focusIdx].Focus()
		return m, textinput.Blink, ""
	case tea.KeyCtrlD:
		if n := len(m.wiz.Form().Evidence); n > 0 {
			m.wiz.RemoveEvidence(n - 1)
		}
		return m, nil, ""
	}

	var cmd tea.Cmd
	m.evidencePath, cmd = m.evidencePath.Update(msg)
	return m, cmd, ""
}

func (m wizardModel) updateStake(msg tea.KeyMsg) (wizardModel, tea.Cmd, string) {
	f := m.wiz.Form()
	switch msg.String() {
	case "up", "k", "+":
		if f.StakeAmount+config.StakeStep <= config.StakeMax {
			f.StakeAmount += config.StakeStep
			m.wiz.SetForm(f)
		}
	case "down", "j", "-":
		if f.StakeAmount-config.StakeStep >= config.StakeMin {
			f.StakeAmount -= config.StakeStep
			m.wiz.SetForm(f)
		}
	case "enter":
		if m.wiz.Submitting() {
			return m, nil, ""
		}
		m.errMsg = ""
		return m, tea.Batch(m.submit(), m.spin.Tick), ""
	case "ctrl+b":
		m.wiz.Back()
		m.evidencePath.Focus()
		return m, textinput.Blink, ""
	}
	return m, nil, ""
}

func (m wizardModel) view() string {
	var b strings.Builder
	step := m.wiz.Step()
	b.WriteString(m.styles.Title.Render(fmt.Sprintf("Submit Report — step %d of 3: %s", int(step), step.Title())))
	b.WriteString("\n\n")

	switch step {
	case wizard.StepDetails:
		for i := range m.inputs {
			if i == fieldDescription {
				b.WriteString(m.styles.FieldLabel.Render("Scam type"))
				b.WriteString(m.styles.Selected.Render(models.AllScamTypes[m.typeIdx].Label()))
				b.WriteString(m.styles.Muted.Render("  (ctrl+t cycles)"))
				b.WriteString("\n")
			}
			b.WriteString(m.inputs[i].View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render("tab next field  ctrl+t scam type  ctrl+n continue"))

	case wizard.StepEvidence:
		files := m.wiz.Form().Evidence
		if len(files) == 0 {
			b.WriteString(m.styles.Muted.Render("No evidence attached yet. At least one file is required."))
			b.WriteString("\n")
		}
		for _, f := range files {
			b.WriteString(m.styles.Body.Render(fmt.Sprintf("  • %s (%d bytes)", f.Name, len(f.Data))))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(m.evidencePath.View())
		b.WriteString("\n\n")
		if m.notice != "" {
			b.WriteString(m.styles.Success.Render(m.notice))
			b.WriteString("\n")
		}
		b.WriteString(m.styles.Muted.Render("enter attach file  ctrl+d drop last  ctrl+b back  ctrl+n continue"))

	case wizard.StepStake:
		f := m.wiz.Form()
		b.WriteString(m.styles.FieldLabel.Render("Stake"))
		b.WriteString(m.styles.Bold.Render(fmt.Sprintf("%d SUI", f.StakeAmount)))
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("  (%d-%d, steps of %d)", config.StakeMin, config.StakeMax, config.StakeStep)))
		b.WriteString("\n")
		b.WriteString(m.styles.FieldLabel.Render("Evidence"))
		b.WriteString(m.styles.Body.Render(fmt.Sprintf("%d file(s)", len(f.Evidence))))
		b.WriteString("\n\n")
		b.WriteString(m.styles.Muted.Render("Your stake is returned when the community verifies the report."))
		b.WriteString("\n\n")
		if m.wiz.Submitting() {
			b.WriteString(m.spin.View())
			b.WriteString(m.styles.Info.Render("Submitting…"))
		} else {
			b.WriteString(m.styles.Muted.Render("up/down adjust stake  ctrl+b back  enter submit"))
		}
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.FieldError.Render(m.errMsg))
	}
	return b.String()
}

// fieldErrorSummary flattens field errors into one status line.
func fieldErrorSummary(fields map[string]string) string {
	if len(fields) == 0 {
		return ""
	}
	parts := make([]string, 0, len(fields))
	for field, msg := range fields {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, "; ")
}

func describeSubmitError(err error, fields map[string]string) string {
	if summary := fieldErrorSummary(fields); summary != "" {
		return summary
	}
	return describeError(err)
}
