package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/scamshield/scamshield/internal/api"
	"github.com/scamshield/scamshield/internal/config"
	"github.com/scamshield/scamshield/internal/session"
	"github.com/scamshield/scamshield/internal/wizard"
)

type memStorage map[string]string

func (m memStorage) Get(key string) (string, error) { return m[key], nil }
func (m memStorage) Set(key, value string) error    { m[key] = value; return nil }
func (m memStorage) Delete(key string) error        { delete(m, key); return nil }

func newTestWizardModel() wizardModel {
	sess := session.NewStore(memStorage{})
	sess.Hydrate()
	return newWizardModel(wizard.New(sess, nil), NewStyles(LightTheme()))
}

func typeInto(m wizardModel, text string) wizardModel {
	for _, r := range text {
		m, _, _ = m.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestWizardStartsOnDetails(t *testing.T) {
	m := newTestWizardModel()
	if m.wiz.Step() != wizard.StepDetails {
		t.Fatalf("step = %v", m.wiz.Step())
	}
	if !m.typing() {
		t.Fatal("first field not focused")
	}
	if !strings.Contains(m.view(), "step 1 of 3") {
		t.Fatal("view missing step heading")
	}
}

func TestWizardBlocksInvalidDetails(t *testing.T) {
	m := newTestWizardModel()
	m = typeInto(m, "x") // title only, everything else invalid

	m, _, _ = m.update(tea.KeyMsg{Type: tea.KeyCtrlN})
	if m.wiz.Step() != wizard.StepDetails {
		t.Fatalf("advanced with invalid details, step = %v", m.wiz.Step())
	}
	if m.errMsg == "" {
		t.Fatal("no error shown")
	}
}

func TestWizardAdvancesWithValidDetails(t *testing.T) {
	m := newTestWizardModel()
	m = typeInto(m, "Fake airdrop site")
	m, _, _ = m.update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeInto(m, "0x"+strings.Repeat("ab", 32))
	m, _, _ = m.update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeInto(m, "The site asked me to sign a drain transaction.")

	m, _, _ = m.update(tea.KeyMsg{Type: tea.KeyCtrlN})
	if m.wiz.Step() != wizard.StepEvidence {
		t.Fatalf("step = %v, want StepEvidence (err %q)", m.wiz.Step(), m.errMsg)
	}
}

func TestWizardStakeAdjustment(t *testing.T) {
	m := newTestWizardModel()
	// Jump straight to the stake step by seeding a valid form.
	f := m.wiz.Form()
	f.Title = "t"
	f.ScammerAddress = "0x" + strings.Repeat("ab", 32)
	f.ScamType = "phishing"
	f.Description = strings.Repeat("d", config.MinDescriptionLength)
	f.Evidence = []api.EvidenceFile{{Name: "a.png", Data: []byte("x")}}
	m.wiz.SetForm(f)
	if err := m.wiz.Next(); err != nil {
		t.Fatal(err)
	}
	if err := m.wiz.Next(); err != nil {
		t.Fatal(err)
	}

	m, _, _ = m.update(key("k"))
	if got := m.wiz.Form().StakeAmount; got != config.StakeDefault+config.StakeStep {
		t.Fatalf("stake = %d", got)
	}

	// The stake never leaves its bounds.
	for i := 0; i < 30; i++ {
		m, _, _ = m.update(key("k"))
	}
	if got := m.wiz.Form().StakeAmount; got != config.StakeMax {
		t.Fatalf("stake above max: %d", got)
	}
	for i := 0; i < 30; i++ {
		m, _, _ = m.update(key("j"))
	}
	if got := m.wiz.Form().StakeAmount; got != config.StakeMin {
		t.Fatalf("stake below min: %d", got)
	}
}

func TestConnectPageValidatesAddress(t *testing.T) {
	sess := session.NewStore(memStorage{})
	sess.Hydrate()
	m := newConnectModel(sess, NewStyles(LightTheme()))

	for _, r := range "0xnotanaddress" {
		m, _, _ = m.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	var connected bool
	m, _, connected = m.update(key("enter"))
	if connected || sess.Connected() {
		t.Fatal("invalid address connected")
	}
	if m.errMsg == "" {
		t.Fatal("no validation message")
	}

	m.input.SetValue("0x" + strings.Repeat("cd", 32))
	m, _, connected = m.update(key("enter"))
	if !connected || !sess.Connected() {
		t.Fatal("valid address did not connect")
	}
}
