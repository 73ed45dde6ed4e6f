package tui

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/minglehq/mingle/internal/client"
	"github.com/muesli/reflow/wordwrap"
)

// TabContainerModel -> main TUI model for this application
type TabContainerModel struct {
	feed          FeedModel
	messages      MessagesModel
	notifications NotificationsModel
	profile       ProfileModel
	settings      SettingsModel
	help          HelpModel
	tabs          []string
	activeTab     int
	errMsg        *errMsg
	timer         timer.Model
	spinner       *spinner.Model
	client        *client.Client
}

func InitialTabContainerModel() TabContainerModel {
	t := []string{
		"📰 FEED",
		"💬 MESSAGES",
		"🔔 NOTIFICATIONS",
		"👤 PROFILE",
		"⚙️ SETTINGS",
		"❔ HELP",
	}
	c := client.Get()
	s := spinner.New(spinner.WithStyle(spinnerStyle), spinner.WithSpinner(spinner.Points))
	return TabContainerModel{
		feed:          InitialFeedModel(c),
		messages:      InitialMessagesModel(c),
		notifications: InitialNotificationsModel(),
		profile:       InitialProfileModel(c),
		settings:      InitialSettingsModel(c),
		help:          InitialHelpModel(),
		tabs:          t,
		activeTab:     0,
		timer:         timer.New(0),
		spinner:       &s,
		client:        c,
	}
}

func (m TabContainerModel) Init() tea.Cmd {
	return tea.Batch(
		m.feed.Init(),
		m.messages.Init(),
		m.notifications.Init(),
		m.profile.Init(),
		m.settings.Init(),
		m.help.Init(),
		m.readOnLoginStateChange(),
	)
}

func (m TabContainerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.setChildModelFocus()
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		terminalHeight = msg.Height
		terminalWidth = msg.Width

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.messages.teardown()
			if err := m.client.BT.Shutdown(5 * time.Second); err != nil {
				slog.Error(err.Error())
			}
			return m, tea.Quit
		case "esc":
			if m.errMsg != nil {
				m.errMsg = nil
				m.timer.Timeout = 0 * time.Second
				return m, nil
			}
		case "ctrl+right":
			if m.activeTab+1 < len(m.tabs) {
				m.activeTab++
			}
		case "ctrl+left":
			if m.activeTab-1 >= 0 {
				m.activeTab--
			}
		}

	case tea.MouseMsg:
		if msg.Button == tea.MouseButtonLeft {
			for i, t := range m.tabs {
				if zone.Get(t).InBounds(msg) {
					m.activeTab = i
				}
			}
		}

	case requireAuthMsg:
		// must tear the session down before redirecting to some other model
		m.messages.teardown()
		loginModel := InitialLoginModel()
		return loginModel, loginModel.Init()

	case chatWithMsg:
		m.activeTab = 1

	case errMsg:
		m.resetSpinner()
		m.errMsg = &msg
		if m.timer.Timedout() {
			m.timer = timer.New(3 * time.Second)
			return m, tea.Batch(m.timer.Init(), m.handleChildModelUpdates(msg))
		}

	case timer.TickMsg:
		if m.timer.ID() == msg.ID {
			return m, m.handleTimerUpdate(msg)
		}

	case timer.TimeoutMsg:
		if m.timer.ID() == msg.ID {
			m.errMsg = nil
		}

	case spinMsg:
		return m, m.spinner.Tick

	case spinner.TickMsg:
		if msg.ID == m.spinner.ID() {
			return m, m.handleSpinnerUpdate(msg)
		}

	case resetSpinnerMsg:
		m.resetSpinner()
	}

	return m, m.handleChildModelUpdates(msg)
}

func (m TabContainerModel) View() string {
	if m.errMsg != nil {
		return renderErrContainer(m.errMsg.err, m.errMsg.code, m.timer.View())
	}
	tabs := make([]string, 0, len(m.tabs))
	for i, t := range m.tabs {
		if i == m.activeTab {
			tabs = append(tabs, zone.Mark(t, activeTabStyle.Render(t)))
		} else {
			tabs = append(tabs, zone.Mark(t, tabStyle.Render(t)))
		}
	}
	t := lipgloss.JoinHorizontal(lipgloss.Center, tabs...)
	bar := m.renderStatusBar()
	content := m.populateActiveTabContent()
	h := terminalHeight - lipgloss.Height(t) - lipgloss.Height(bar)
	c := lipgloss.NewStyle().Height(max(0, h)).Render(content)
	return zone.Scan(lipgloss.JoinVertical(lipgloss.Left, t, c, bar))
}

// Helpers & Stuff -----------------------------------------------------------------------------------------------------

func (m TabContainerModel) renderStatusBar() string {
	who := ""
	if m.client.CurrentUsr != nil {
		who = m.client.CurrentUsr.DisplayName()
	}
	status := "ctrl+←/→ to switch tabs"
	if ioStatus != "" {
		status = ioStatus + " " + m.spinner.View()
	}
	left := statusBarStyle.Render(who)
	right := statusBarStyle.Render(status)
	gap := terminalWidth - lipgloss.Width(left) - lipgloss.Width(right)
	return lipgloss.JoinHorizontal(lipgloss.Bottom, left,
		lipgloss.NewStyle().Width(max(0, gap)).Render(""), right)
}

func renderErrContainer(err string, code int, timer string) string {
	statusTxt := http.StatusText(code)
	if code == 0 { // Application Error
		statusTxt = "Application Error"
	}
	h := errHeaderStyle.Render(strconv.Itoa(code), "-", statusTxt)
	margin := errContainerStyle.GetWidth() - (lipgloss.Width(h) + 6)
	t := lipgloss.NewStyle().Foreground(dangerColor).MarginLeft(max(0, margin)).Render(timer)
	h = lipgloss.JoinHorizontal(lipgloss.Left, h, t)
	d := errDescStyle.Render(wordwrap.String(err, 58))
	e := errContainerStyle.Render(lipgloss.JoinVertical(lipgloss.Left, h, d))
	return lipgloss.Place(terminalWidth, terminalHeight,
		lipgloss.Center, lipgloss.Center,
		e,
		lipgloss.WithWhitespaceChars("↯"),
		lipgloss.WithWhitespaceForeground(darkGreyColor))
}

func (m *TabContainerModel) setChildModelFocus() {
	m.feed.focus = false
	m.messages.focus = false
	m.notifications.focus = false
	m.profile.focus = false
	m.settings.focus = false
	m.help.focus = false
	switch m.activeTab {
	case 0:
		m.feed.focus = true
	case 1:
		m.messages.focus = true
	case 2:
		m.notifications.focus = true
	case 3:
		m.profile.focus = true
	case 4:
		m.settings.focus = true
	case 5:
		m.help.focus = true
	}
}

func (m *TabContainerModel) handleChildModelUpdates(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 6)
	m.feed, cmds[0] = m.feed.Update(msg)
	m.messages, cmds[1] = m.messages.Update(msg)
	m.notifications, cmds[2] = m.notifications.Update(msg)
	m.profile, cmds[3] = m.profile.Update(msg)
	m.settings, cmds[4] = m.settings.Update(msg)
	m.help, cmds[5] = m.help.Update(msg)
	return tea.Batch(cmds...)
}

func (m *TabContainerModel) handleTimerUpdate(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.timer, cmd = m.timer.Update(msg)
	return cmd
}

func (m *TabContainerModel) handleSpinnerUpdate(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	*m.spinner, cmd = m.spinner.Update(msg)
	return cmd
}

func (m *TabContainerModel) resetSpinner() {
	s := spinner.New(
		spinner.WithStyle(spinnerStyle),
		spinner.WithSpinner(spinner.Points),
	)
	m.spinner = &s
	ioStatus = ""
}

func (m *TabContainerModel) populateActiveTabContent() string {
	switch m.activeTab {
	case 0:
		return m.feed.View()
	case 1:
		return m.messages.View()
	case 2:
		return m.notifications.View()
	case 3:
		return m.profile.View()
	case 4:
		return m.settings.View()
	case 5:
		return m.help.View()
	default:
		return ""
	}
}

// user is logged out -> return requireAuthMsg
func (m TabContainerModel) readOnLoginStateChange() tea.Cmd {
	return func() tea.Msg {
		for {
			if s := m.client.LoginState.WaitForStateChange(); !bool(s) {
				return requireAuthMsg{}
			}
		}
	}
}
