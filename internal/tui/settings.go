package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/minglehq/mingle/internal/client"
	"github.com/minglehq/mingle/internal/domain"
)

type settingsOption struct {
	zoneID string
	label  string
	desc   string
}

type SettingsModel struct {
	options []settingsOption
	selIdx  int
	focus   bool
	client  *client.Client
}

func InitialSettingsModel(c *client.Client) SettingsModel {
	return SettingsModel{
		options: []settingsOption{
			{"settingsActiveStatus", "Active status", ""},
			{"settingsReconnect", "Reconnect messaging", "tear the socket down and dial again"},
			{"settingsLogout", "Logout", "clear the stored session and local cache"},
		},
		client: c,
	}
}

func (m SettingsModel) Init() tea.Cmd {
	return nil
}

func (m SettingsModel) Update(msg tea.Msg) (SettingsModel, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		if !m.focus {
			break
		}
		switch msg.String() {
		case "up", "k":
			if m.selIdx > 0 {
				m.selIdx--
			}
		case "down", "j":
			if m.selIdx < len(m.options)-1 {
				m.selIdx++
			}
		case "enter":
			return m, m.runSelectedOption()
		}

	case tea.MouseMsg:
		if msg.Button != tea.MouseButtonLeft {
			break
		}
		for i, o := range m.options {
			if zone.Get(o.zoneID).InBounds(msg) {
				m.selIdx = i
				return m, m.runSelectedOption()
			}
		}
	}
	return m, nil
}

func (m SettingsModel) View() string {
	var sb strings.Builder
	for i, o := range m.options {
		style := postCardStyle
		if i == m.selIdx && m.focus {
			style = selectedPostCardStyle
		}
		label := lipgloss.NewStyle().Bold(true).Render(o.label)
		if o.zoneID == "settingsLogout" {
			label = lipgloss.NewStyle().Bold(true).Foreground(dangerColor).Render(o.label)
		}
		desc := lipgloss.NewStyle().Faint(true).Render(o.desc)
		if o.zoneID == "settingsActiveStatus" {
			desc = lipgloss.NewStyle().Faint(true).Render(m.activeStatusDesc())
		}
		card := lipgloss.JoinVertical(lipgloss.Left, label, desc)
		sb.WriteString(zone.Mark(o.zoneID, style.Width(44).Render(card)))
		sb.WriteString("\n")
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(sb.String())
}

// Helpers & Stuff -----------------------------------------------------------------------------------------------------

func (m SettingsModel) activeStatusDesc() string {
	if u := m.client.CurrentUsr; u != nil && !u.ActiveStatus {
		return "hidden, others cannot see you online (enter to show)"
	}
	return "visible, others can see you online (enter to hide)"
}

func (m SettingsModel) runSelectedOption() tea.Cmd {
	switch m.options[m.selIdx].zoneID {
	case "settingsActiveStatus":
		return m.toggleActiveStatus()
	case "settingsReconnect":
		return func() tea.Msg { return reopenChatMsg{} }
	case "settingsLogout":
		return func() tea.Msg {
			m.client.Logout()
			return nil
		}
	}
	return nil
}

func (m SettingsModel) toggleActiveStatus() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		if c.CurrentUsr == nil {
			return nil
		}
		status := !c.CurrentUsr.ActiveStatus
		if err := c.UpdateProfile(&domain.UserUpdate{ActiveStatus: &status}); err != nil {
			return errMsg{err: err.Error()}
		}
		return nil
	}
}
