package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/minglehq/mingle/internal/client"
	"github.com/minglehq/mingle/internal/domain"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	"golang.org/x/exp/maps"
)

type ResetPasswordModel struct {
	txtInputs    []textinput.Model
	placeholders []string
	spinner      spinner.Model
	spin         bool
	tabIdx       int // 0 - 1 -> txtInputs | 2 -> Reset btn
	dangerState  bool
	errTxt       string
	userEmail    string
	ev           *domain.ErrValidation
	client       *client.Client
}

func InitialResetPasswordModel(email string) ResetPasswordModel {
	s := spinner.New()
	s.Style = spinnerStyle
	s.Spinner = spinner.Points

	m := ResetPasswordModel{
		txtInputs: make([]textinput.Model, 2),
		placeholders: []string{
			"a fresh password...",
			"same one, again...",
		},
		spinner:   s,
		userEmail: email,
		ev:        domain.NewErrValidation(),
		client:    client.Get(),
	}
	for i := range m.txtInputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 64
		ti.TextStyle = lipgloss.NewStyle().Foreground(primaryColor)
		ti.Cursor = cursor.New()
		ti.Cursor.SetMode(cursor.CursorHide)
		ti.Placeholder = m.placeholders[i]
		ti.EchoCharacter = '*'
		ti.EchoMode = textinput.EchoPassword
		m.txtInputs[i] = ti
	}
	return m
}

func (m ResetPasswordModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m ResetPasswordModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		terminalWidth = msg.Width
		terminalHeight = msg.Height

	case tea.KeyMsg:
		for i := range m.txtInputs {
			if i == m.tabIdx {
				m.txtInputs[i].Focus()
			} else {
				m.txtInputs[i].Blur()
			}
		}
		m.dangerState = false
		m.errTxt = ""
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "enter":
			if m.tabIdx == 2 && !m.spin {
				if err := m.validateResetPasswordModel(); err != nil {
					return m, nil
				}
				m.spin = true
				return m, tea.Batch(m.spinner.Tick, m.resetPassword())
			} else if m.tabIdx != 2 {
				m.tabIdx++
			}
		case "tab":
			m.tabIdx = (m.tabIdx + 1) % 3
		case "shift+tab":
			m.tabIdx--
			if m.tabIdx < 0 {
				m.tabIdx = 2
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case errMsg:
		m.spin = false
		m.dangerState = true
		m.errTxt = msg.err
		return m, nil

	case doneMsg:
		m.spin = false
		login := InitialLoginModel()
		return login, login.Init()
	}
	for i := range m.txtInputs {
		if m.txtInputs[i].Focused() {
			m.txtInputs[i].Placeholder = m.placeholders[i]
			m.txtInputs[i].PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
		}
	}
	cmds := make([]tea.Cmd, len(m.txtInputs))
	for i := range m.txtInputs {
		if m.tabIdx == i {
			m.txtInputs[i], cmds[i] = m.txtInputs[i].Update(msg)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m ResetPasswordModel) View() string {
	var sb strings.Builder
	sb.WriteString(mingleLogo)
	if m.errTxt != "" && m.dangerState {
		e := wrap.String(wordwrap.String(m.errTxt, 60), 60)
		sb.WriteString(infoTxtStyle.Foreground(dangerColor).Render(e))
	} else {
		sb.WriteString(infoTxtStyle.Render("Pick a new password for " + m.userEmail))
	}
	for i := range m.txtInputs {
		if i == m.tabIdx {
			sb.WriteString(activeInputStyle.Render(m.txtInputs[i].View()))
		} else {
			sb.WriteString(inputStyle.Render(m.txtInputs[i].View()))
		}
	}
	btnTxt := "Reset"
	if m.spin {
		btnTxt = m.spinner.View()
	}
	if m.tabIdx == 2 {
		sb.WriteString(activeBtnInputStyle.Render(activeButtonStyle.Render(btnTxt)))
	} else {
		sb.WriteString(btnInputStyle.Render(buttonStyle.Render(btnTxt)))
	}
	c := container
	if m.dangerState {
		c = c.BorderForeground(dangerColor)
	}
	return containerCentered(c.Render(sb.String()))
}

// Helpers & Stuff -----------------------------------------------------------------------------------------------------

func (m *ResetPasswordModel) validateResetPasswordModel() error {
	maps.Clear(m.ev.Errors)
	domain.ValidPlainPassword(m.txtInputs[0].Value(), m.ev)
	m.ev.Evaluate(m.txtInputs[0].Value() == m.txtInputs[1].Value(), "confirmPassword", "passwords do not match")
	if m.ev.HasErrors() {
		m.dangerState = true
		if err, ok := m.ev.Errors["password"]; ok {
			populateErr(&m.txtInputs[0], err)
		}
		if err, ok := m.ev.Errors["confirmPassword"]; ok {
			populateErr(&m.txtInputs[1], err)
		}
		maps.Clear(m.ev.Errors)
		return errors.New("validation errors")
	}
	return nil
}

func (m ResetPasswordModel) resetPassword() tea.Cmd {
	return func() tea.Msg {
		pr := domain.PasswordReset{
			Email:           m.userEmail,
			Password:        m.txtInputs[0].Value(),
			ConfirmPassword: m.txtInputs[1].Value(),
		}
		if err := m.client.ResetPassword(pr); err != nil {
			return errMsg{err: err.Error()}
		}
		return doneMsg{}
	}
}
