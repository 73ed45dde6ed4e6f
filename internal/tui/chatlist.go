package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/minglehq/mingle/internal/client"
	"github.com/minglehq/mingle/internal/domain"
)

const chatListContainer = "chatListContainer"

type chatHeadsBroadcast struct {
	ch    <-chan []*domain.ChatHead
	token int
}

type ChatListModel struct {
	chatList list.Model
	heads    []*domain.ChatHead
	session  *client.ChatSession
	hb       chatHeadsBroadcast
	focus    bool
	client   *client.Client
}

type chatHeadItem struct{ id, title, desc string }

func (i chatHeadItem) Title() string       { return zone.Mark(i.id, i.title) }
func (i chatHeadItem) Description() string { return i.desc }
func (i chatHeadItem) FilterValue() string { return i.title }

func InitialChatListModel(c *client.Client) ChatListModel {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.KeyMap = getChatListKeyMap(true)
	l.SetStatusBarItemName("Chat", "Chats")
	l.DisableQuitKeybindings()
	l.SetShowFilter(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowPagination(false)
	l.StatusMessageLifetime = 2 * time.Second
	m := ChatListModel{
		chatList: l,
		focus:    true,
		client:   c,
	}
	// the cached snapshot shows while the session dials
	m.setHeads(c.CachedChatHeads())
	return m
}

func (m ChatListModel) Init() tea.Cmd {
	return nil
}

func (m ChatListModel) Update(msg tea.Msg) (ChatListModel, tea.Cmd) {
	if m.focus {
		m.chatList.KeyMap = getChatListKeyMap(true)
	} else {
		m.chatList.KeyMap = getChatListKeyMap(false)
	}

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.updateDimensions()
		return m, nil

	case sessionOpenedMsg:
		m.session = msg.session
		m.hb.token, m.hb.ch = m.session.ChatHeads.Subscribe()
		return m, m.listenForChatHeads()

	case chatHeadsMsg:
		m.setHeads(msg)
		return m, m.listenForChatHeads()

	case tea.KeyMsg:
		if !m.focus {
			break
		}
		if msg.String() == "enter" {
			return m, m.selectChatHead(m.chatList.Index())
		}

	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelDown:
			if zone.Get(chatListContainer).InBounds(msg) {
				m.chatList.CursorDown()
			}
		case tea.MouseButtonWheelUp:
			if zone.Get(chatListContainer).InBounds(msg) {
				m.chatList.CursorUp()
			}
		case tea.MouseButtonLeft:
			for i, listItem := range m.chatList.VisibleItems() {
				v, _ := listItem.(chatHeadItem)
				if zone.Get(v.id).InBounds(msg) {
					m.chatList.Select(i)
					return m, m.selectChatHead(i)
				}
			}
		default:
		}
	}

	var cmd tea.Cmd
	m.chatList, cmd = m.chatList.Update(msg)
	return m, cmd
}

func (m ChatListModel) View() string {
	style := chatListContainerStyle.
		Width(chatListWidth()).
		Height(chatHeight())
	if m.focus {
		style = style.BorderForeground(primaryColor)
	} else {
		style = style.BorderForeground(greyColor)
	}
	return zone.Mark(chatListContainer, style.Render(m.chatList.View()))
}

// Helpers & Stuff -----------------------------------------------------------------------------------------------------

func (m *ChatListModel) setHeads(heads []*domain.ChatHead) {
	m.heads = heads
	selfID := ""
	if m.client.CurrentUsr != nil {
		selfID = m.client.CurrentUsr.ID
	}
	items := make([]list.Item, len(heads))
	now := time.Now()
	for i, h := range heads {
		peer := h.Peer(selfID)
		title := peer.Name
		if title == "" {
			title = "New conversation"
		}
		desc := truncate(h.LastMessage, 36)
		if !h.LastMessageAt.IsZero() {
			desc = domain.PreviewTime(h.LastMessageAt, now) + "  " + desc
		}
		items[i] = chatHeadItem{id: h.ID.String(), title: title, desc: desc}
	}
	m.chatList.SetItems(items)
}

func (m ChatListModel) selectChatHead(i int) tea.Cmd {
	if m.session == nil || i < 0 || i >= len(m.heads) {
		return nil
	}
	head := m.heads[i]
	return func() tea.Msg {
		m.session.SelectConversation(head)
		return nil
	}
}

func (m *ChatListModel) updateDimensions() {
	w := chatListWidth() - chatListContainerStyle.GetHorizontalFrameSize()
	h := chatHeight() - chatListContainerStyle.GetVerticalFrameSize()
	m.chatList.SetSize(max(0, w), max(0, h))
}

func (m ChatListModel) listenForChatHeads() tea.Cmd {
	return func() tea.Msg {
		heads, ok := <-m.hb.ch
		if !ok {
			return nil
		}
		return chatHeadsMsg(heads)
	}
}

func getChatListKeyMap(focus bool) list.KeyMap {
	if !focus {
		return list.KeyMap{}
	}
	km := list.DefaultKeyMap()
	km.NextPage = key.NewBinding(key.WithDisabled())
	km.PrevPage = key.NewBinding(key.WithDisabled())
	return km
}
