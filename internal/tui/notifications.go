package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/minglehq/mingle/internal/domain"
)

type notification struct {
	icon string
	text string
	at   time.Time
}

// NotificationsModel renders a canned activity feed, there is no notification
// service behind it yet.
type NotificationsModel struct {
	vp            viewport.Model
	notifications []notification
	focus         bool
}

func InitialNotificationsModel() NotificationsModel {
	now := time.Now()
	n := []notification{
		{"♥", "Dua liked your post", now.Add(-10 * time.Minute)},
		{"🗨", "Hamza commented on your post", now.Add(-2 * time.Hour)},
		{"👤", "Areeba started following you", now.Add(-26 * time.Hour)},
		{"♥", "Hamza liked your post", now.Add(-3 * 24 * time.Hour)},
		{"👤", "Moiz started following you", now.Add(-6 * 24 * time.Hour)},
	}
	return NotificationsModel{
		vp:            viewport.New(0, 0),
		notifications: n,
	}
}

func (m NotificationsModel) Init() tea.Cmd {
	return nil
}

func (m NotificationsModel) Update(msg tea.Msg) (NotificationsModel, tea.Cmd) {
	if m.focus {
		m.vp.KeyMap = viewport.DefaultKeyMap()
	} else {
		m.vp.KeyMap = viewport.KeyMap{}
	}
	if _, ok := msg.(tea.WindowSizeMsg); ok {
		m.vp.Width = terminalWidth - 2
		m.vp.Height = max(0, terminalHeight-6)
		m.vp.SetContent(m.renderNotifications())
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m NotificationsModel) View() string {
	if m.vp.Height == 0 {
		m.vp.Width = terminalWidth - 2
		m.vp.Height = max(0, terminalHeight-6)
		m.vp.SetContent(m.renderNotifications())
	}
	return m.vp.View()
}

// Helpers & Stuff -----------------------------------------------------------------------------------------------------

func (m NotificationsModel) renderNotifications() string {
	var sb strings.Builder
	now := time.Now()
	for _, n := range m.notifications {
		icon := lipgloss.NewStyle().Foreground(primaryColor).Render(n.icon)
		when := lipgloss.NewStyle().Faint(true).Render(domain.PreviewTime(n.at, now))
		row := lipgloss.JoinHorizontal(lipgloss.Center, icon, "  ", n.text, "  ", when)
		sb.WriteString(postCardStyle.Width(m.vp.Width - 2).Render(row))
		sb.WriteString("\n")
	}
	return sb.String()
}
