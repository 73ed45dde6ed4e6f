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

type RegisterModel struct {
	txtInputs    []textinput.Model
	placeholders []string
	spinner      spinner.Model
	spin         bool
	activeBtn    int // -1 -> none, 0 -> Signup, 1 -> Login
	tabIdx       int // 0 - 3 -> txtInputs | 4 - 5 -> Signup & Login btns
	dangerState  bool
	errTxt       string
	ev           *domain.ErrValidation
	client       *client.Client
}

func InitialRegisterModel() RegisterModel {
	s := spinner.New()
	s.Style = spinnerStyle
	s.Spinner = spinner.Points

	m := RegisterModel{
		txtInputs: make([]textinput.Model, 4),
		placeholders: []string{
			"first name...",
			"last name...",
			"email...",
			"password...",
		},
		spinner:   s,
		activeBtn: -1,
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
		if i == 3 {
			ti.EchoCharacter = '*'
			ti.EchoMode = textinput.EchoPassword
		}
		m.txtInputs[i] = ti
	}
	return m
}

func (m RegisterModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m RegisterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		terminalWidth = msg.Width
		terminalHeight = msg.Height

	case tea.KeyMsg:
		m.handleActiveTabIdxElement()
		m.dangerState = false
		m.errTxt = ""
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			loginModel := InitialLoginModel()
			return loginModel, loginModel.Init()
		case "enter":
			if m.tabIdx == 4 && !m.spin {
				if err := m.validateRegisterModel(); err != nil {
					return m, nil
				}
				m.spin = true
				return m, tea.Batch(m.spinner.Tick, m.register())
			} else if m.tabIdx == 5 {
				loginModel := InitialLoginModel()
				return loginModel, loginModel.Init()
			} else if m.tabIdx != 4 {
				m.tabIdx++
			}
		case "tab":
			if m.tabIdx == 5 {
				m.tabIdx = 0
			} else {
				m.tabIdx++
			}
		case "shift+tab":
			if m.tabIdx == 0 {
				m.tabIdx = 5
			} else {
				m.tabIdx--
			}
		case "left":
			if m.tabIdx == 5 {
				m.tabIdx--
			}
		case "right":
			if m.tabIdx == 4 {
				m.tabIdx++
			}
		}
		if m.tabIdx == 4 {
			m.activeBtn = 0
		} else if m.tabIdx == 5 {
			m.activeBtn = 1
		} else {
			m.activeBtn = -1
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
		// account verification comes next
		otpModel := InitialOTPModel(m.txtInputs[2].Value(), otpVerifyAccount)
		return otpModel, otpModel.Init()
	}
	for i := range m.txtInputs {
		if m.txtInputs[i].Focused() {
			m.txtInputs[i].Placeholder = m.placeholders[i]
			m.txtInputs[i].PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
		}
	}
	return m, m.handleTxtInputs(msg)
}

func (m RegisterModel) View() string {
	var sb strings.Builder
	sb.WriteString(mingleLogo)
	if m.errTxt != "" && m.dangerState {
		e := wrap.String(wordwrap.String(m.errTxt, 60), 60)
		sb.WriteString(infoTxtStyle.Foreground(dangerColor).Render(e))
	} else {
		sb.WriteString(infoTxtStyle.Render("Create your account, esc goes back to login"))
	}
	for i := range m.txtInputs {
		if i == m.tabIdx {
			sb.WriteString(activeInputStyle.Render(m.txtInputs[i].View()))
		} else {
			sb.WriteString(inputStyle.Render(m.txtInputs[i].View()))
		}
	}
	signupBtn := buttonStyle.Render("Signup")
	loginBtn := buttonStyle.Render("Login")
	if m.tabIdx >= len(m.txtInputs) {
		if m.activeBtn == 0 {
			signupBtnTxt := "Signup"
			if m.spin {
				signupBtnTxt = m.spinner.View()
			}
			signupBtn = activeButtonStyle.Render(signupBtnTxt)
		} else if m.activeBtn == 1 {
			loginBtn = activeButtonStyle.Render("Login")
		}
		sb.WriteString(activeBtnInputStyle.Render(signupBtn, loginBtn))
	} else {
		sb.WriteString(btnInputStyle.Render(signupBtn, loginBtn))
	}
	c := container
	if m.dangerState {
		c = c.BorderForeground(dangerColor)
	}
	return containerCentered(c.Render(sb.String()))
}

// Helpers & Stuff -----------------------------------------------------------------------------------------------------

func (m *RegisterModel) validateRegisterModel() error {
	maps.Clear(m.ev.Errors)
	domain.ValidateName(m.txtInputs[0].Value(), m.ev)
	domain.ValidateName(m.txtInputs[1].Value(), m.ev)
	domain.ValidateEmail(m.txtInputs[2].Value(), m.ev)
	domain.ValidPlainPassword(m.txtInputs[3].Value(), m.ev)
	if m.ev.HasErrors() {
		m.txtInputs[3].Reset()
		m.dangerState = true
		if err, ok := m.ev.Errors["name"]; ok {
			populateErr(&m.txtInputs[0], err)
		}
		if err, ok := m.ev.Errors["email"]; ok {
			populateErr(&m.txtInputs[2], err)
		}
		if err, ok := m.ev.Errors["password"]; ok {
			populateErr(&m.txtInputs[3], err)
		}
		return errors.New("validation errors")
	}
	maps.Clear(m.ev.Errors)
	return nil
}

func (m *RegisterModel) handleActiveTabIdxElement() {
	for i := range m.txtInputs {
		if i == m.tabIdx {
			m.txtInputs[i].Focus()
		} else {
			m.txtInputs[i].Blur()
		}
	}
}

func (m RegisterModel) handleTxtInputs(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(m.txtInputs))
	for i := range m.txtInputs {
		if m.tabIdx == i {
			m.txtInputs[i], cmds[i] = m.txtInputs[i].Update(msg)
		}
	}
	return tea.Batch(cmds...)
}

func (m RegisterModel) register() tea.Cmd {
	return func() tea.Msg {
		u := domain.UserRegister{
			FirstName: m.txtInputs[0].Value(),
			LastName:  m.txtInputs[1].Value(),
			Email:     m.txtInputs[2].Value(),
			Password:  m.txtInputs[3].Value(),
		}
		if err := m.client.Register(&u); err != nil {
			return errMsg{err: err.Error()}
		}
		return doneMsg{}
	}
}
