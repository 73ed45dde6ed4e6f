package tui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/minglehq/mingle/internal/client"
	"github.com/minglehq/mingle/internal/domain"
	"golang.org/x/exp/maps"
)

type profileSavedMsg struct{}

type ProfileModel struct {
	txtInputs    []textinput.Model
	placeholders []string
	editing      bool
	tabIdx       int // 0 - 3 -> txtInputs, editing only
	saving       bool
	focus        bool
	ev           *domain.ErrValidation
	client       *client.Client
}

func InitialProfileModel(c *client.Client) ProfileModel {
	m := ProfileModel{
		txtInputs: make([]textinput.Model, 4),
		placeholders: []string{
			"first name...",
			"last name...",
			"a line about yourself...",
			"path to an avatar image...",
		},
		ev:     domain.NewErrValidation(),
		client: c,
	}
	for i := range m.txtInputs {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.CharLimit = 256
		ti.TextStyle = lipgloss.NewStyle().Foreground(primaryColor)
		ti.Cursor = cursor.New()
		ti.Placeholder = m.placeholders[i]
		m.txtInputs[i] = ti
	}
	return m
}

func (m ProfileModel) Init() tea.Cmd {
	return nil
}

func (m ProfileModel) Update(msg tea.Msg) (ProfileModel, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		terminalWidth = msg.Width
		terminalHeight = msg.Height

	case profileSavedMsg:
		m.saving = false
		m.editing = false
		return m, spinnerResetCmd

	case errMsg:
		m.saving = false

	case tea.KeyMsg:
		if !m.focus {
			break
		}
		if !m.editing {
			if msg.String() == "e" {
				m.editing = true
				m.tabIdx = 0
				m.prefillInputs()
				return m, m.txtInputs[0].Focus()
			}
			break
		}
		switch msg.String() {
		case "esc":
			m.editing = false
			m.blurInputs()
			return m, nil
		case "tab", "enter":
			m.tabIdx = (m.tabIdx + 1) % len(m.txtInputs)
			return m, m.focusInput(m.tabIdx)
		case "shift+tab":
			m.tabIdx--
			if m.tabIdx < 0 {
				m.tabIdx = len(m.txtInputs) - 1
			}
			return m, m.focusInput(m.tabIdx)
		case "ctrl+s":
			if m.saving {
				break
			}
			if err := m.validateProfileModel(); err != nil {
				return m, nil
			}
			m.saving = true
			return m, tea.Batch(m.saveProfile(), spinnerSpinCmd("Saving profile"))
		}
		cmds := make([]tea.Cmd, len(m.txtInputs))
		for i := range m.txtInputs {
			if m.tabIdx == i {
				m.txtInputs[i], cmds[i] = m.txtInputs[i].Update(msg)
			}
		}
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

func (m ProfileModel) View() string {
	u := m.client.CurrentUsr
	if u == nil {
		return infoTxtStyle.Render("No profile loaded yet.")
	}
	var sb strings.Builder
	name := lipgloss.NewStyle().Bold(true).Foreground(primaryColor).Render(u.DisplayName())
	sb.WriteString(name)
	sb.WriteString("\n")
	sb.WriteString(lipgloss.NewStyle().Faint(true).Render(u.Email))
	sb.WriteString("\n\n")
	if u.Bio != "" {
		sb.WriteString(u.Bio)
		sb.WriteString("\n\n")
	}
	counts := lipgloss.NewStyle().Foreground(secondaryColor).
		Render(plural(u.Followers, "follower") + " · " + plural(u.Following, "following"))
	sb.WriteString(counts)
	sb.WriteString("\n\n")
	if m.editing {
		for i := range m.txtInputs {
			style := inputStyle.Align(lipgloss.Left)
			if i == m.tabIdx {
				style = activeInputStyle.Align(lipgloss.Left)
			}
			sb.WriteString(style.Render(m.txtInputs[i].View()))
			sb.WriteString("\n")
		}
		sb.WriteString(lipgloss.NewStyle().Faint(true).Render("ctrl+s saves, esc discards"))
	} else {
		sb.WriteString(lipgloss.NewStyle().Faint(true).Render("e to edit the profile"))
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(sb.String())
}

// Helpers & Stuff -----------------------------------------------------------------------------------------------------

func plural(n int, noun string) string {
	s := strconv.Itoa(n) + " " + noun
	if noun != "following" && n != 1 {
		s += "s"
	}
	return s
}

func (m *ProfileModel) prefillInputs() {
	u := m.client.CurrentUsr
	if u == nil {
		return
	}
	m.txtInputs[0].SetValue(u.FirstName)
	m.txtInputs[1].SetValue(u.LastName)
	m.txtInputs[2].SetValue(u.Bio)
	m.txtInputs[3].SetValue("")
}

func (m *ProfileModel) blurInputs() {
	for i := range m.txtInputs {
		m.txtInputs[i].Blur()
	}
}

func (m *ProfileModel) focusInput(i int) tea.Cmd {
	m.blurInputs()
	return m.txtInputs[i].Focus()
}

func (m *ProfileModel) validateProfileModel() error {
	maps.Clear(m.ev.Errors)
	domain.ValidateName(m.txtInputs[0].Value(), m.ev)
	if m.ev.HasErrors() {
		populateErr(&m.txtInputs[0], m.ev.Errors["name"])
		maps.Clear(m.ev.Errors)
		return errors.New("validation errors")
	}
	return nil
}

func (m ProfileModel) saveProfile() tea.Cmd {
	first := strings.TrimSpace(m.txtInputs[0].Value())
	last := strings.TrimSpace(m.txtInputs[1].Value())
	bio := strings.TrimSpace(m.txtInputs[2].Value())
	avatarPath := strings.TrimSpace(m.txtInputs[3].Value())
	return func() tea.Msg {
		u := &domain.UserUpdate{FirstName: first, LastName: last, Bio: bio}
		if avatarPath != "" {
			url, err := m.client.UploadImage(avatarPath)
			if err != nil {
				return errMsg{err: err.Error()}
			}
			u.AvatarURL = url
		}
		if err := m.client.UpdateProfile(u); err != nil {
			return errMsg{err: err.Error()}
		}
		if usr, err, _ := m.client.GetProfile(); err == nil {
			m.client.CurrentUsr = usr
		}
		return profileSavedMsg{}
	}
}
