package ui

import (
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/scamshield/scamshield/internal/api"
	"github.com/scamshield/scamshield/internal/config"
	"github.com/scamshield/scamshield/internal/models"
	"github.com/scamshield/scamshield/internal/session"
	"github.com/scamshield/scamshield/internal/storage"
	"github.com/scamshield/scamshield/internal/wallet"
	"github.com/scamshield/scamshield/internal/wizard"
)

type page int

const (
	pageConnect page = iota
	pageReports
	pageDetail
	pageWizard
	pageDashboard
)

// Messages shared across pages.
type (
	sessionHydratedMsg struct{ err error }
	authFailedMsg      struct{}

	reportsLoadedMsg struct {
		seq  int
		page *models.ReportPage
		err  error
	}
	reportLoadedMsg struct {
		report *models.Report
		err    error
	}
	statsLoadedMsg struct {
		stats   *models.DashboardStats
		mine    *models.ReportPage
		pending *models.ReportPage
		err     error
	}
	submitDoneMsg struct {
		report *models.Report
		err    error
	}
	verifyDoneMsg struct {
		verification *models.Verification
		err          error
	}
)

// App is the root model. It owns navigation, the shared dependencies, and
// the session lifecycle; pages handle their own keys and rendering.
type App struct {
	session *session.Store
	client  *api.Client
	store   *storage.Store
	styles  Styles

	page    page
	width   int
	height  int
	status  string
	version string

	authEvents chan struct{}

	connect   connectModel
	reports   reportsModel
	detail    detailModel
	wizardPg  wizardModel
	dashboard dashboardModel
}

// NewApp wires the root model. The API client's 401 handler feeds the
// authEvents channel so the HTTP goroutine never touches model state
// directly. signer may be nil when no keystore is set up; votes are then
// sent without a transaction digest.
func NewApp(sess *session.Store, store *storage.Store, signer *wallet.Signer, baseURL, version string) *App {
	app := &App{
		session:    sess,
		store:      store,
		version:    version,
		authEvents: make(chan struct{}, 4),
	}

	app.client = api.NewClient(baseURL,
		api.FallbackIdentity{Primary: sess, Storage: store},
		api.WithAuthFailureHandler(func() {
			sess.Clear()
			select {
			case app.authEvents <- struct{}{}:
			default:
			}
		}),
	)

	var vs voteSigner
	if signer != nil {
		vs = signer
	}

	app.styles = NewStyles(app.loadTheme())
	app.connect = newConnectModel(sess, app.styles)
	app.reports = newReportsModel(app.client, app.styles)
	app.detail = newDetailModel(app.client, sess, vs, app.styles)
	app.wizardPg = newWizardModel(wizard.New(sess, app.client), app.styles)
	app.dashboard = newDashboardModel(app.client, app.styles)

	if sess.Connected() {
		app.page = pageReports
	}
	return app
}

// loadTheme reads the persisted dark mode preference.
func (a *App) loadTheme() Theme {
	val, err := a.store.Get(config.SettingDarkMode)
	if err != nil {
		slog.Warn("failed to read dark mode setting", "error", err)
	}
	if val == "true" {
		return DarkTheme()
	}
	return LightTheme()
}

func (a *App) toggleTheme() {
	theme := LightTheme()
	if !a.styles.Theme.IsDark {
		theme = DarkTheme()
	}
	a.styles = NewStyles(theme)
	a.connect.styles = a.styles
	a.reports.styles = a.styles
	a.detail.styles = a.styles
	a.wizardPg.styles = a.styles
	a.dashboard.styles = a.styles

	if err := a.store.Set(config.SettingDarkMode, fmt.Sprintf("%t", theme.IsDark)); err != nil {
		slog.Warn("failed to persist dark mode setting", "error", err)
	}
}

// Init defers hydration one tick so the first frame renders the disconnected
// state instead of blocking on storage.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return sessionHydratedMsg{err: a.session.Hydrate()} },
		a.waitForAuthEvent(),
		a.connect.Init(),
	)
}

func (a *App) waitForAuthEvent() tea.Cmd {
	return func() tea.Msg {
		<-a.authEvents
		return authFailedMsg{}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.reports.setSize(msg.Width, msg.Height)
		a.detail.setSize(msg.Width, msg.Height)
		a.dashboard.setSize(msg.Width, msg.Height)
		return a, nil

	case sessionHydratedMsg:
		if msg.err != nil {
			slog.Warn("session hydration failed", "error", msg.err)
		}
		if a.session.Connected() && a.page == pageConnect {
			a.page = pageReports
			return a, a.reports.refresh()
		}
		return a, nil

	case authFailedMsg:
		// Session already cleared by the handler; land on the connect page.
		a.status = "Session expired. Connect your wallet again."
		a.page = pageConnect
		return a, a.waitForAuthEvent()

	case tea.KeyMsg:
		if cmd, handled := a.handleGlobalKey(msg); handled {
			return a, cmd
		}
	}

	return a, a.routeToPage(msg)
}

func (a *App) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	// Pages with focused text inputs swallow printable keys.
	if a.typingActive() {
		if msg.Type == tea.KeyCtrlC {
			return tea.Quit, true
		}
		return nil, false
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return tea.Quit, true
	case "1":
		a.page = pageReports
		return a.reports.refresh(), true
	case "2":
		if !a.session.Connected() {
			a.status = "Connect a wallet before submitting a report."
			return nil, true
		}
		a.page = pageWizard
		return nil, true
	case "3":
		a.page = pageDashboard
		return a.dashboard.refresh(a.session.Connected()), true
	case "0":
		a.page = pageConnect
		return nil, true
	case "t":
		a.toggleTheme()
		return nil, true
	case "D":
		a.session.Clear()
		a.status = "Wallet disconnected."
		a.page = pageConnect
		return nil, true
	}
	return nil, false
}

// typingActive reports whether the focused page is capturing text.
func (a *App) typingActive() bool {
	switch a.page {
	case pageConnect:
		return a.connect.typing()
	case pageReports:
		return a.reports.typing()
	case pageWizard:
		return a.wizardPg.typing()
	case pageDetail:
		return a.detail.typing()
	}
	return false
}

func (a *App) routeToPage(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.page {
	case pageConnect:
		var connected bool
		a.connect, cmd, connected = a.connect.update(msg)
		if connected {
			a.page = pageReports
			return tea.Batch(cmd, a.reports.refresh())
		}
	case pageReports:
		var open string
		a.reports, cmd, open = a.reports.update(msg)
		if open != "" {
			a.page = pageDetail
			return tea.Batch(cmd, a.detail.load(open))
		}
	case pageDetail:
		var back bool
		a.detail, cmd, back = a.detail.update(msg)
		if back {
			a.page = pageReports
		}
	case pageWizard:
		var done string
		a.wizardPg, cmd, done = a.wizardPg.update(msg)
		if done != "" {
			// Submission succeeded; show the created report.
			a.page = pageDetail
			a.wizardPg = newWizardModel(wizard.New(a.session, a.client), a.styles)
			return tea.Batch(cmd, a.detail.load(done))
		}
	case pageDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	}
	return cmd
}

func (a *App) View() string {
	var b strings.Builder

	wallet := "not connected"
	if addr := a.session.Address(); addr != "" {
		wallet = shortAddress(addr)
	}
	b.WriteString(a.styles.Header.Render("ScamShield " + a.version))
	b.WriteString("  ")
	b.WriteString(a.styles.Muted.Render(wallet))
	b.WriteString("\n\n")

	switch a.page {
	case pageConnect:
		b.WriteString(a.connect.view())
	case pageReports:
		b.WriteString(a.reports.view())
	case pageDetail:
		b.WriteString(a.detail.view())
	case pageWizard:
		b.WriteString(a.wizardPg.view())
	case pageDashboard:
		b.WriteString(a.dashboard.view())
	}

	if a.status != "" {
		b.WriteString("\n")
		b.WriteString(a.styles.Info.Render(a.status))
	}
	b.WriteString("\n")
	b.WriteString(a.styles.Footer.Render("1 reports  2 submit  3 dashboard  0 wallet  t theme  D disconnect  q quit"))
	return b.String()
}

// shortAddress abbreviates a Sui address for display.
func shortAddress(addr string) string {
	if len(addr) <= 14 {
		return addr
	}
	return addr[:8] + "…" + addr[len(addr)-6:]
}
