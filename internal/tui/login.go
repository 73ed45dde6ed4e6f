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

type LoginModel struct {
	txtInputs    []textinput.Model
	placeholders []string
	spinner      spinner.Model
	spin         bool
	activeBtn    int // -1 -> none, 0 -> Continue, 1 -> Register
	tabIdx       int // 0 - 1 -> txtInputs | 2 - 3 -> Continue & Register btns
	dangerState  bool
	errTxt       string
	ev           *domain.ErrValidation
	client       *client.Client
}

func InitialLoginModel() LoginModel {
	s := spinner.New()
	s.Style = spinnerStyle
	s.Spinner = spinner.Points

	m := LoginModel{
		txtInputs: make([]textinput.Model, 2),
		placeholders: []string{
			"your email goes here...",
			"and here goes the password...",
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
		if i == 1 {
			ti.EchoCharacter = '*'
			ti.EchoMode = textinput.EchoPassword
		}
		m.txtInputs[i] = ti
	}
	return m
}

func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		terminalWidth = msg.Width
		terminalHeight = msg.Height

	case tea.KeyMsg:
		m.handleActiveTabIdxElement()
		// must be after handling the active tab indices method
		m.dangerState = false // once there is a keypress remove the danger state
		m.errTxt = ""
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+f":
			forgotModel := InitialForgotPasswordModel()
			return forgotModel, forgotModel.Init()
		case "enter":
			if m.tabIdx == 2 && !m.spin {
				if err := m.validateLoginModel(); err != nil {
					return m, nil
				}
				m.spin = true
				return m, tea.Batch(m.spinner.Tick, m.login())
			} else if m.tabIdx == 3 {
				registerModel := InitialRegisterModel()
				return registerModel, registerModel.Init()
			} else if m.tabIdx != 2 {
				m.tabIdx++
			}
		case "tab":
			if m.tabIdx == 3 {
				m.tabIdx = 0
			} else {
				m.tabIdx++
			}
		case "shift+tab":
			if m.tabIdx == 0 {
				m.tabIdx = 3
			} else {
				m.tabIdx--
			}
		case "left":
			if m.tabIdx == 3 {
				m.tabIdx--
			}
		case "right":
			if m.tabIdx == 2 {
				m.tabIdx++
			}
		}
		if m.tabIdx == 2 {
			m.activeBtn = 0
		} else if m.tabIdx == 3 {
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
		tabs := InitialTabContainerModel()
		return tabs, tabs.Init()
	}
	// as the user focuses the input fields we reset the placeholders to defaults
	for i := range m.txtInputs {
		if m.txtInputs[i].Focused() {
			m.txtInputs[i].Placeholder = m.placeholders[i]
			m.txtInputs[i].PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
		}
	}
	return m, m.handleTxtInputs(msg)
}

func (m LoginModel) View() string {
	var sb strings.Builder
	sb.WriteString(mingleLogo)
	if m.errTxt != "" && m.dangerState {
		e := wrap.String(wordwrap.String(m.errTxt, 60), 60)
		sb.WriteString(infoTxtStyle.Foreground(dangerColor).Render(e))
	} else {
		sb.WriteString(infoTxtStyle.Render("Login to your account, ctrl+f if you forgot the password"))
	}
	for i := range m.txtInputs {
		if i == m.tabIdx {
			sb.WriteString(activeInputStyle.Render(m.txtInputs[i].View()))
		} else {
			sb.WriteString(inputStyle.Render(m.txtInputs[i].View()))
		}
	}
	continueBtn := buttonStyle.Render("Continue")
	registerBtn := buttonStyle.Render("Register")
	if m.tabIdx >= len(m.txtInputs) {
		if m.activeBtn == 0 {
			continueBtnTxt := "Continue"
			if m.spin {
				continueBtnTxt = m.spinner.View()
			}
			continueBtn = activeButtonStyle.Render(continueBtnTxt)
		} else if m.activeBtn == 1 {
			registerBtn = activeButtonStyle.Render("Register")
		}
		sb.WriteString(activeBtnInputStyle.Render(continueBtn, registerBtn))
	} else {
		sb.WriteString(btnInputStyle.Render(continueBtn, registerBtn))
	}
	c := container
	if m.dangerState {
		c = c.BorderForeground(dangerColor)
	}
	return containerCentered(c.Render(sb.String()))
}

// Helpers & Stuff -----------------------------------------------------------------------------------------------------

// validateLoginModel validates the input form then adds the errors to ev
func (m *LoginModel) validateLoginModel() error {
	// clear the previous errors
	maps.Clear(m.ev.Errors)
	domain.ValidateEmail(m.txtInputs[0].Value(), m.ev)
	m.ev.Evaluate(m.txtInputs[1].Value() != "", "password", "must be provided")
	if m.ev.HasErrors() {
		m.txtInputs[1].Reset() // Reset password field for any error
		m.dangerState = true
		if err, ok := m.ev.Errors["email"]; ok {
			populateErr(&m.txtInputs[0], err)
		}
		if err, ok := m.ev.Errors["password"]; ok {
			populateErr(&m.txtInputs[1], err)
		}
		return errors.New("validation errors")
	}
	maps.Clear(m.ev.Errors)
	return nil
}

func populateErr(ti *textinput.Model, err string) {
	ti.Reset()
	ti.Placeholder = err
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(dangerColor)
}

func (m *LoginModel) handleActiveTabIdxElement() {
	for i := range m.txtInputs {
		if i == m.tabIdx {
			m.txtInputs[i].Focus()
		} else {
			m.txtInputs[i].Blur()
		}
	}
}

func (m LoginModel) handleTxtInputs(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(m.txtInputs))
	for i := range m.txtInputs {
		if m.tabIdx == i {
			m.txtInputs[i], cmds[i] = m.txtInputs[i].Update(msg)
		}
	}
	return tea.Batch(cmds...)
}

func (m LoginModel) login() tea.Cmd {
	return func() tea.Msg {
		u := domain.UserAuth{
			Email:    m.txtInputs[0].Value(),
			Password: m.txtInputs[1].Value(),
		}
		if err := m.client.Login(u); err != nil {
			return errMsg{err: err.Error()}
		}
		return doneMsg{}
	}
}
