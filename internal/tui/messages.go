package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/minglehq/mingle/internal/client"
	"github.com/minglehq/mingle/internal/domain"
)

type sessionErrsBroadcast struct {
	ch    <-chan string
	token int
}

// MessagesModel is the messaging tab. It owns the socket session lifecycle,
// the session dials when the tab first gains focus and is torn down on
// logout, quit, or an explicit reopen from the settings tab.
type MessagesModel struct {
	chatList  ChatListModel
	chat      ChatModel
	session   *client.ChatSession
	connState client.ConnState
	eb        sessionErrsBroadcast
	focusIdx  int // 0 -> chatList, 1 -> chat
	opening   bool
	focus     bool
	client    *client.Client
}

func InitialMessagesModel(c *client.Client) MessagesModel {
	return MessagesModel{
		chatList: InitialChatListModel(c),
		chat:     InitialChatModel(c),
		client:   c,
	}
}

func (m MessagesModel) Init() tea.Cmd {
	return tea.Batch(m.chatList.Init(), m.chat.Init())
}

func (m MessagesModel) Update(msg tea.Msg) (MessagesModel, tea.Cmd) {
	m.chatList.focus = m.focus && m.focusIdx == 0
	m.chat.focus = m.focus && m.focusIdx == 1

	if m.focus && m.session == nil && !m.opening {
		m.opening = true
		return m, tea.Batch(m.openSession(nil), m.handleChildUpdates(msg))
	}

	switch msg := msg.(type) {

	case sessionOpenedMsg:
		m.opening = false
		m.session = msg.session
		m.eb.token, m.eb.ch = m.session.Errs.Subscribe()
		return m, tea.Batch(
			m.listenForSessionErrs(),
			m.listenForConnState(),
			m.handleChildUpdates(msg),
		)

	case connStateMsg:
		m.connState = client.ConnState(msg)
		if m.connState == client.Disconnected {
			// terminal state for this session, reopening builds a new one
			return m, m.handleChildUpdates(msg)
		}
		return m, tea.Batch(m.listenForConnState(), m.handleChildUpdates(msg))

	case sessionErrMsg:
		return m, tea.Batch(
			m.listenForSessionErrs(),
			func() tea.Msg { return errMsg{err: string(msg)} },
		)

	case chatWithMsg:
		m.focusIdx = 1
		if m.session == nil {
			if !m.opening {
				m.opening = true
				peer := msg.peer
				return m, tea.Batch(m.openSession(&peer), m.handleChildUpdates(msg))
			}
			return m, m.handleChildUpdates(msg)
		}
		return m, tea.Batch(m.messageUser(msg.peer), m.handleChildUpdates(msg))

	case reopenChatMsg:
		m.teardown()
		m.session = nil
		m.connState = client.Idle
		m.opening = true
		return m, tea.Batch(m.openSession(nil), m.handleChildUpdates(msg))

	case errMsg:
		m.opening = false

	case tea.KeyMsg:
		if !m.focus {
			break
		}
		if msg.String() == "tab" && !m.chat.chatTxtarea.Focused() {
			m.focusIdx = (m.focusIdx + 1) % 2
			return m, nil
		}
	}

	return m, m.handleChildUpdates(msg)
}

func (m MessagesModel) View() string {
	state := m.renderConnState()
	var panels string
	if narrowLayout() {
		if m.focusIdx == 0 {
			panels = m.chatList.View()
		} else {
			panels = m.chat.View()
		}
	} else {
		panels = lipgloss.JoinHorizontal(lipgloss.Top, m.chatList.View(), m.chat.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, state, panels)
}

// Helpers & Stuff -----------------------------------------------------------------------------------------------------

func (m MessagesModel) renderConnState() string {
	is := statusBarStyle
	switch m.connState {
	case client.Connected:
		is = is.Foreground(lipgloss.Color("#2ECC71"))
	case client.Connecting:
		is = is.Foreground(lipgloss.Color("#F39C12"))
	case client.Disconnected:
		is = is.Foreground(dangerColor)
	default:
		is = is.Foreground(greyColor)
	}
	return is.Render("● " + m.connState.String())
}

func (m MessagesModel) openSession(target *domain.UserRef) tea.Cmd {
	return func() tea.Msg {
		session, err := m.client.OpenChatSession(target)
		if err != nil {
			return errMsg{err: err.Error()}
		}
		return sessionOpenedMsg{session: session}
	}
}

func (m MessagesModel) messageUser(peer domain.UserRef) tea.Cmd {
	return func() tea.Msg {
		m.session.MessageUser(peer)
		return nil
	}
}

// teardown closes the session and drops every broadcast subscription, it must
// run before this model is abandoned or the broadcasters cannot shut down.
func (m MessagesModel) teardown() {
	if m.session == nil {
		return
	}
	m.session.Errs.Unsubscribe(m.eb.token)
	m.session.ChatHeads.Unsubscribe(m.chatList.hb.token)
	m.session.ActiveLog.Unsubscribe(m.chat.chatViewport.lb.token)
	m.session.Close()
}

func (m MessagesModel) listenForSessionErrs() tea.Cmd {
	return func() tea.Msg {
		reason, ok := <-m.eb.ch
		if !ok {
			return nil
		}
		return sessionErrMsg(reason)
	}
}

func (m MessagesModel) listenForConnState() tea.Cmd {
	return func() tea.Msg {
		ctx := m.client.BT.GetShtdwnCtx()
		s := m.session.ConnState.WaitForStateChange()
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		return connStateMsg(s)
	}
}

func (m *MessagesModel) handleChildUpdates(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 2)
	m.chatList, cmds[0] = m.chatList.Update(msg)
	m.chat, cmds[1] = m.chat.Update(msg)
	return tea.Batch(cmds...)
}
