package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/minglehq/mingle/internal/client"
)

const (
	chatViewportZone = "chatViewport"
	chatTxtareaZone  = "chatTxtarea"
)

var (
	chatHeaderHeight   int
	chatTextareaHeight int
)

type ChatModel struct {
	chatTxtarea  textarea.Model
	chatViewport ChatViewportModel
	session      *client.ChatSession
	focus        bool
	client       *client.Client
}

func InitialChatModel(c *client.Client) ChatModel {
	return ChatModel{
		chatTxtarea:  newChatTxtArea(),
		chatViewport: InitialChatViewport(c),
		client:       c,
	}
}

func (m ChatModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.chatViewport.Init())
}

func (m ChatModel) Update(msg tea.Msg) (ChatModel, tea.Cmd) {
	if !m.focus {
		m.chatViewport.focus = false
		m.chatTxtarea.Blur()
	} else if m.chatTxtarea.Focused() {
		m.chatViewport.focus = false
	} else {
		m.chatViewport.focus = true
	}

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.updateDimensions()

	case sessionOpenedMsg:
		m.session = msg.session

	case tea.KeyMsg:
		if !m.focus {
			break
		}
		switch msg.String() {
		case "ctrl+t":
			cmd := m.chatTxtarea.Focus()
			m.updateDimensions()
			return m, cmd
		case "ctrl+s":
			s := strings.TrimSpace(m.chatTxtarea.Value())
			m.chatTxtarea.Reset()
			return m, m.sendMessage(s)
		case "ctrl+x":
			return m, m.clearConversation()
		case "esc":
			m.chatTxtarea.Blur()
			m.updateDimensions()
			return m, nil
		}

	case tea.MouseMsg:
		if zone.Get(chatViewportZone).InBounds(msg) {
			m.chatTxtarea.Blur()
			m.updateDimensions()
		}
		if zone.Get(chatTxtareaZone).InBounds(msg) {
			cmd := m.chatTxtarea.Focus()
			m.updateDimensions()
			return m, cmd
		}
	}
	return m, tea.Batch(m.handleChatTextareaUpdate(msg), m.handleChatViewportUpdate(msg))
}

func (m ChatModel) View() string {
	log := m.chatViewport.log
	if log.Head == nil {
		return chatContainerStyle.
			Width(chatWidth()).
			Height(chatHeight()).
			Align(lipgloss.Center).
			AlignVertical(lipgloss.Center).
			Render("Select a chat to start mingling")
	}
	peer := log.Head.Peer(m.chatViewport.selfID())
	title := peer.Name
	if title == "" {
		title = "New conversation"
	}
	h := renderChatHeader(title)
	chatHeaderHeight = lipgloss.Height(h)
	ta := zone.Mark(chatTxtareaZone, m.chatTxtarea.View())
	ta = renderChatTextarea(ta, m.chatTxtarea.Focused())
	chatTextareaHeight = lipgloss.Height(ta)
	m.chatViewport.vp.Height = chatHeight() - (chatHeaderHeight + chatTextareaHeight + chatContainerStyle.GetVerticalFrameSize())
	chatView := zone.Mark(chatViewportZone, m.chatViewport.View())
	c := lipgloss.JoinVertical(lipgloss.Top, h, chatView, ta)
	return chatContainerStyle.
		Width(chatWidth()).
		Height(chatHeight()).
		Render(c)
}

// Helpers & Stuff -----------------------------------------------------------------------------------------------------

func newChatTxtArea() textarea.Model {
	ta := textarea.New()
	ta.Placeholder = "Type a message, ctrl+s sends it..."
	ta.Prompt = ""
	ta.CharLimit = 1000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Cursor.Style = lipgloss.NewStyle().Foreground(primaryColor)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle().Foreground(whiteColor)
	return ta
}

func renderChatHeader(title string) string {
	return chatHeaderStyle.Width(chatWidth() - chatContainerStyle.GetHorizontalFrameSize()).Render(title)
}

func renderChatTextarea(ta string, focused bool) string {
	style := chatTxtareaStyle.Width(chatWidth() - chatContainerStyle.GetHorizontalFrameSize())
	if focused {
		style = style.BorderForeground(primaryColor)
	}
	return style.Render(ta)
}

func (m ChatModel) sendMessage(text string) tea.Cmd {
	if m.session == nil || text == "" {
		return nil
	}
	return func() tea.Msg {
		m.session.SendMessage(text)
		return nil
	}
}

func (m ChatModel) clearConversation() tea.Cmd {
	if m.session == nil {
		return nil
	}
	return func() tea.Msg {
		m.session.ClearConversation()
		return nil
	}
}

func (m *ChatModel) handleChatTextareaUpdate(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.chatTxtarea, cmd = m.chatTxtarea.Update(msg)
	return cmd
}

func (m *ChatModel) handleChatViewportUpdate(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.chatViewport, cmd = m.chatViewport.Update(msg)
	return cmd
}

func (m *ChatModel) updateDimensions() {
	m.chatTxtarea.SetWidth(chatWidth() - chatContainerStyle.GetHorizontalFrameSize() - 2)
	m.chatViewport.updateDimensions()
}
