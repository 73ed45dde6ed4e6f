package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/minglehq/mingle/internal/client"
	"github.com/minglehq/mingle/internal/domain"
)

type feedMode int

const (
	feedBrowse feedMode = iota
	feedComment
	feedCompose
)

type feedPostsMsg struct {
	posts []*domain.Post
	scope client.PostScope
}

// feedRefreshMsg asks for a refetch of the current scope, issued after any
// mutating action succeeds.
type feedRefreshMsg struct{}

type FeedModel struct {
	vp         viewport.Model
	posts      []*domain.Post
	scope      client.PostScope
	selIdx     int
	mode       feedMode
	comment    textinput.Model
	title      textinput.Model
	caption    textinput.Model
	composeIdx int // 0 -> title, 1 -> caption
	fetching   bool
	focus      bool
	client     *client.Client
}

func InitialFeedModel(c *client.Client) FeedModel {
	newInput := func(placeholder string, limit int) textinput.Model {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.CharLimit = limit
		ti.Placeholder = placeholder
		ti.TextStyle = lipgloss.NewStyle().Foreground(primaryColor)
		ti.Cursor = cursor.New()
		return ti
	}
	return FeedModel{
		vp:      viewport.New(0, 0),
		comment: newInput("Say something nice...", 500),
		title:   newInput("Title...", 120),
		caption: newInput("Caption...", 2200),
		client:  c,
	}
}

func (m FeedModel) Init() tea.Cmd {
	return nil
}

func (m FeedModel) Update(msg tea.Msg) (FeedModel, tea.Cmd) {
	if m.focus && m.posts == nil && !m.fetching {
		m.fetching = true
		return m, tea.Batch(m.fetchPosts(m.scope), spinnerSpinCmd("Fetching posts"))
	}

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.updateDimensions()
		m.vp.SetContent(m.renderFeed())

	case feedPostsMsg:
		m.fetching = false
		m.posts = msg.posts
		m.scope = msg.scope
		if m.selIdx >= len(m.posts) {
			m.selIdx = max(0, len(m.posts)-1)
		}
		m.vp.SetContent(m.renderFeed())
		return m, spinnerResetCmd

	case feedRefreshMsg:
		m.fetching = true
		return m, m.fetchPosts(m.scope)

	case errMsg:
		if m.fetching {
			m.fetching = false
			if m.posts == nil {
				// stop the auto-refetch, r retries manually
				m.posts = []*domain.Post{}
			}
		}

	case tea.KeyMsg:
		if !m.focus {
			break
		}
		switch m.mode {
		case feedComment:
			return m.updateCommentMode(msg)
		case feedCompose:
			return m.updateComposeMode(msg)
		}
		switch msg.String() {
		case "1", "2", "3":
			scope := client.AllPosts
			if msg.String() == "2" {
				scope = client.MyPosts
			} else if msg.String() == "3" {
				scope = client.FavoritePosts
			}
			m.fetching = true
			return m, tea.Batch(m.fetchPosts(scope), spinnerSpinCmd("Fetching posts"))
		case "r":
			m.fetching = true
			return m, tea.Batch(m.fetchPosts(m.scope), spinnerSpinCmd("Fetching posts"))
		case "up", "k":
			if m.selIdx > 0 {
				m.selIdx--
			}
			m.vp.SetContent(m.renderFeed())
		case "down", "j":
			if m.selIdx < len(m.posts)-1 {
				m.selIdx++
			}
			m.vp.SetContent(m.renderFeed())
		case "l":
			return m, m.react(client.ReactionLike)
		case "f":
			return m, m.react(client.ReactionFav)
		case "c":
			if m.selectedPost() != nil {
				m.mode = feedComment
				return m, m.comment.Focus()
			}
		case "n":
			m.mode = feedCompose
			m.composeIdx = 0
			return m, m.title.Focus()
		case "d":
			return m, m.deleteSelectedPost()
		case "enter":
			if p := m.selectedPost(); p != nil && p.Author.ID != m.selfID() {
				return m, func() tea.Msg { return chatWithMsg{peer: p.Author} }
			}
		}
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m FeedModel) View() string {
	header := m.renderHeader()
	var footer string
	switch m.mode {
	case feedComment:
		footer = inputStyle.Align(lipgloss.Left).Render(m.comment.View())
	case feedCompose:
		title := inputStyle.Align(lipgloss.Left).Render(m.title.View())
		caption := inputStyle.Align(lipgloss.Left).Render(m.caption.View())
		footer = lipgloss.JoinVertical(lipgloss.Left, title, caption)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, m.vp.View(), footer)
}

// Helpers & Stuff -----------------------------------------------------------------------------------------------------

func (m FeedModel) renderHeader() string {
	scopes := []string{"1 ALL", "2 MINE", "3 FAVORITES"}
	for i := range scopes {
		if client.PostScope(i) == m.scope {
			scopes[i] = activeTabStyle.Render(scopes[i])
		} else {
			scopes[i] = tabStyle.Render(scopes[i])
		}
	}
	hint := statusBarStyle.Foreground(greyColor).
		Render("l like · f favorite · c comment · n new · d delete · enter message author")
	return lipgloss.JoinHorizontal(lipgloss.Center, append(scopes, hint)...)
}

func (m *FeedModel) renderFeed() string {
	if len(m.posts) == 0 {
		return postCardStyle.Width(m.vp.Width - 2).Render("Nothing here yet.")
	}
	var sb strings.Builder
	now := time.Now()
	for i, p := range m.posts {
		style := postCardStyle
		if i == m.selIdx {
			style = selectedPostCardStyle
		}
		author := p.Author.Name
		if author == "" {
			author = "someone"
		}
		head := lipgloss.NewStyle().Bold(true).Foreground(primaryColor).Render(p.Title)
		meta := lipgloss.NewStyle().Faint(true).
			Render(author + " · " + domain.PreviewTime(p.CreatedAt, now))
		like := "♡"
		if p.LikedByMe {
			like = "♥"
		}
		fav := "☆"
		if p.FavoritedByMe {
			fav = "★"
		}
		counts := lipgloss.NewStyle().Foreground(secondaryColor).
			Render(fmt.Sprintf("%s %d   %s   🗨 %d", like, p.LikeCount, fav, p.CommentCount))
		card := lipgloss.JoinVertical(lipgloss.Left, head, meta, p.Caption, counts)
		sb.WriteString(style.Width(m.vp.Width - 2).Render(card))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m *FeedModel) updateCommentMode(msg tea.KeyMsg) (FeedModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = feedBrowse
		m.comment.Reset()
		m.comment.Blur()
		return *m, nil
	case "enter":
		text := strings.TrimSpace(m.comment.Value())
		m.mode = feedBrowse
		m.comment.Reset()
		m.comment.Blur()
		return *m, m.commentOnSelectedPost(text)
	}
	var cmd tea.Cmd
	m.comment, cmd = m.comment.Update(msg)
	return *m, cmd
}

func (m *FeedModel) updateComposeMode(msg tea.KeyMsg) (FeedModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = feedBrowse
		m.title.Reset()
		m.caption.Reset()
		m.title.Blur()
		m.caption.Blur()
		return *m, nil
	case "tab", "shift+tab":
		m.composeIdx = (m.composeIdx + 1) % 2
		if m.composeIdx == 0 {
			m.caption.Blur()
			return *m, m.title.Focus()
		}
		m.title.Blur()
		return *m, m.caption.Focus()
	case "enter":
		if m.composeIdx == 0 {
			m.composeIdx = 1
			m.title.Blur()
			return *m, m.caption.Focus()
		}
		p := &domain.PostCreate{
			Title:   strings.TrimSpace(m.title.Value()),
			Caption: strings.TrimSpace(m.caption.Value()),
		}
		m.mode = feedBrowse
		m.title.Reset()
		m.caption.Reset()
		m.title.Blur()
		m.caption.Blur()
		return *m, m.createPost(p)
	}
	var cmd tea.Cmd
	if m.composeIdx == 0 {
		m.title, cmd = m.title.Update(msg)
	} else {
		m.caption, cmd = m.caption.Update(msg)
	}
	return *m, cmd
}

func (m FeedModel) selfID() string {
	if m.client.CurrentUsr != nil {
		return m.client.CurrentUsr.ID
	}
	return ""
}

func (m FeedModel) selectedPost() *domain.Post {
	if m.selIdx < 0 || m.selIdx >= len(m.posts) {
		return nil
	}
	return m.posts[m.selIdx]
}

func (m FeedModel) fetchPosts(scope client.PostScope) tea.Cmd {
	return func() tea.Msg {
		posts, err, code := m.client.GetPosts(scope)
		if err != nil {
			return errMsg{err: err.Error(), code: code}
		}
		return feedPostsMsg{posts: posts, scope: scope}
	}
}

func (m FeedModel) react(kind client.ReactionKind) tea.Cmd {
	p := m.selectedPost()
	if p == nil {
		return nil
	}
	return func() tea.Msg {
		if _, err := m.client.React(p.ID, kind); err != nil {
			return errMsg{err: err.Error()}
		}
		return feedRefreshMsg{}
	}
}

func (m FeedModel) commentOnSelectedPost(text string) tea.Cmd {
	p := m.selectedPost()
	if p == nil || text == "" {
		return nil
	}
	return func() tea.Msg {
		if err := m.client.CommentOnPost(p.ID, text); err != nil {
			return errMsg{err: err.Error()}
		}
		return feedRefreshMsg{}
	}
}

func (m FeedModel) createPost(p *domain.PostCreate) tea.Cmd {
	return func() tea.Msg {
		if err := m.client.CreatePost(p); err != nil {
			return errMsg{err: err.Error()}
		}
		return feedRefreshMsg{}
	}
}

func (m FeedModel) deleteSelectedPost() tea.Cmd {
	p := m.selectedPost()
	if p == nil || p.Author.ID != m.selfID() {
		return nil
	}
	return func() tea.Msg {
		if err := m.client.DeletePost(p.ID); err != nil {
			return errMsg{err: err.Error()}
		}
		return feedRefreshMsg{}
	}
}

func (m *FeedModel) updateDimensions() {
	m.vp.Width = terminalWidth - 2
	m.vp.Height = max(0, terminalHeight-8)
}
