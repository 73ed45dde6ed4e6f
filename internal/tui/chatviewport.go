package tui

import (
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/minglehq/mingle/internal/client"
	"github.com/minglehq/mingle/internal/domain"
)

type activeLogBroadcast struct {
	ch    <-chan client.ConversationLog
	token int
}

type ChatViewportModel struct {
	vp      viewport.Model
	log     client.ConversationLog
	selIdx  int // -1 -> no message selected
	session *client.ChatSession
	lb      activeLogBroadcast
	focus   bool
	client  *client.Client
}

func InitialChatViewport(c *client.Client) ChatViewportModel {
	return ChatViewportModel{
		vp:     viewport.New(0, 0),
		selIdx: -1,
		client: c,
	}
}

func (m ChatViewportModel) Init() tea.Cmd {
	return nil
}

func (m ChatViewportModel) Update(msg tea.Msg) (ChatViewportModel, tea.Cmd) {
	if m.focus {
		m.vp.KeyMap = viewport.DefaultKeyMap()
		m.vp.MouseWheelEnabled = true
	} else {
		m.vp.KeyMap = viewport.KeyMap{}
		m.vp.MouseWheelEnabled = false
	}

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.vp.SetContent(m.renderChatViewport())
		return m, m.handleChatViewportUpdate(msg)

	case sessionOpenedMsg:
		m.session = msg.session
		m.lb.token, m.lb.ch = m.session.ActiveLog.Subscribe()
		return m, m.listenForActiveLog()

	case activeLogMsg:
		m.log = client.ConversationLog(msg)
		m.selIdx = -1
		m.vp.SetContent(m.renderChatViewport())
		m.vp.GotoBottom()
		return m, m.listenForActiveLog()

	case tea.KeyMsg:
		if !m.focus {
			break
		}
		switch msg.String() {
		case "shift+up":
			if m.selIdx == -1 {
				m.selIdx = len(m.log.Msgs) - 1
			} else if m.selIdx > 0 {
				m.selIdx--
			}
			m.vp.SetContent(m.renderChatViewport())
		case "shift+down":
			if m.selIdx != -1 && m.selIdx < len(m.log.Msgs)-1 {
				m.selIdx++
				m.vp.SetContent(m.renderChatViewport())
			} else {
				m.selIdx = -1
				m.vp.SetContent(m.renderChatViewport())
			}
		case "ctrl+y":
			return m, m.copySelectedMessage()
		case "ctrl+d":
			return m, m.deleteSelectedMessage()
		}
	}
	return m, m.handleChatViewportUpdate(msg)
}

func (m ChatViewportModel) View() string {
	return m.vp.View()
}

// Helpers & Stuff -----------------------------------------------------------------------------------------------------

func (m *ChatViewportModel) selfID() string {
	if m.session != nil {
		return m.session.SelfID()
	}
	if m.client.CurrentUsr != nil {
		return m.client.CurrentUsr.ID
	}
	return ""
}

func (m *ChatViewportModel) handleChatViewportUpdate(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return cmd
}

func (m *ChatViewportModel) renderChatViewport() string {
	var sb strings.Builder
	selfID := m.selfID()
	now := time.Now()
	var prev *time.Time
	cb := chatBubbleContainer.Width(chatWidth() - chatBubbleContainer.GetHorizontalFrameSize())
	for i, msg := range m.log.Msgs {
		if domain.NeedsDateSeparator(prev, msg.SentAt) {
			s := dateSeparatorStyle.Render(domain.DateSeparator(msg.SentAt, now))
			sb.WriteString("\n")
			sb.WriteString(cb.Align(lipgloss.Center).Render(s))
			sb.WriteString("\n")
		}
		t := msg.SentAt
		prev = &t
		align := lipgloss.Left
		if msg.SenderID == selfID {
			align = lipgloss.Right
		}
		sb.WriteString("\n")
		sb.WriteString(cb.Align(align).Render(m.renderBubbleWithStatusInfo(msg, i == m.selIdx)))
	}
	return sb.String()
}

func (m *ChatViewportModel) renderBubbleWithStatusInfo(msg *domain.Message, selected bool) string {
	selfID := m.selfID()
	txtWidth := min(chatWidth()-20, lipgloss.Width(msg.Text)+2)
	bubbleStyle := chatBubbleLStyle
	if msg.SenderID == selfID {
		bubbleStyle = chatBubbleRStyle
	}
	if selected {
		bubbleStyle = bubbleStyle.Background(secondaryColor)
	}
	bubble := bubbleStyle.Width(txtWidth).Render(msg.Text)
	sentAt := lipgloss.NewStyle().Faint(true).Foreground(whiteColor).
		Render(domain.MessageTime(msg.SentAt))

	if msg.SenderID == selfID {
		status := "⁎" // optimistic, not yet confirmed
		if msg.ID.Confirmed() {
			status = "⁑"
		}
		if msg.Seen {
			status = "⁂"
		}
		status = lipgloss.NewStyle().Faint(true).Foreground(primaryColor).Render(status)
		return lipgloss.JoinHorizontal(lipgloss.Center, status, " ", sentAt, " ", bubble)
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, bubble, " ", sentAt)
}

func (m ChatViewportModel) copySelectedMessage() tea.Cmd {
	if m.selIdx < 0 || m.selIdx >= len(m.log.Msgs) {
		return nil
	}
	text := m.log.Msgs[m.selIdx].Text
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return errMsg{err: err.Error()}
		}
		return nil
	}
}

func (m ChatViewportModel) deleteSelectedMessage() tea.Cmd {
	if m.session == nil || m.selIdx < 0 || m.selIdx >= len(m.log.Msgs) {
		return nil
	}
	msg := m.log.Msgs[m.selIdx]
	if msg.SenderID != m.session.SelfID() {
		return nil // only own messages can be deleted
	}
	id := msg.ID
	return func() tea.Msg {
		m.session.DeleteMessage(id)
		return nil
	}
}

func (m ChatViewportModel) listenForActiveLog() tea.Cmd {
	return func() tea.Msg {
		log, ok := <-m.lb.ch
		if !ok {
			return nil
		}
		return activeLogMsg(log)
	}
}

func (m *ChatViewportModel) updateDimensions() {
	m.vp.Width = chatWidth() - chatContainerStyle.GetHorizontalFrameSize()
	m.vp.Height = chatHeight() - (chatHeaderHeight + chatTextareaHeight + chatContainerStyle.GetVerticalFrameSize())
}
