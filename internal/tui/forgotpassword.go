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

type ForgotPasswordModel struct {
	emailInput  textinput.Model
	spinner     spinner.Model
	spin        bool
	tabIdx      int // 0 -> email input | 1 -> Send Code btn
	dangerState bool
	errTxt      string
	ev          *domain.ErrValidation
	client      *client.Client
}

func InitialForgotPasswordModel() ForgotPasswordModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 64
	ti.Placeholder = "your account's email..."
	ti.TextStyle = lipgloss.NewStyle().Foreground(primaryColor)
	ti.Cursor = cursor.New()
	ti.Cursor.SetMode(cursor.CursorHide)

	s := spinner.New()
	s.Style = spinnerStyle
	s.Spinner = spinner.Points

	return ForgotPasswordModel{
		emailInput: ti,
		spinner:    s,
		ev:         domain.NewErrValidation(),
		client:     client.Get(),
	}
}

func (m ForgotPasswordModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m ForgotPasswordModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		terminalWidth = msg.Width
		terminalHeight = msg.Height

	case tea.KeyMsg:
		if m.tabIdx == 0 {
			m.emailInput.Focus()
		} else {
			m.emailInput.Blur()
		}
		m.dangerState = false
		m.errTxt = ""
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			login := InitialLoginModel()
			return login, login.Init()
		case "enter":
			if m.tabIdx == 0 {
				m.tabIdx++
			} else if !m.spin {
				if err := m.validateForgotPasswordModel(); err != nil {
					return m, nil
				}
				m.spin = true
				return m, tea.Batch(m.spinner.Tick, m.sendCode())
			}
		case "tab", "shift+tab":
			m.tabIdx = (m.tabIdx + 1) % 2
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
		otp := InitialOTPModel(m.emailInput.Value(), otpResetPassword)
		return otp, otp.Init()
	}
	if m.emailInput.Focused() {
		m.emailInput.Placeholder = "your account's email..."
		m.emailInput.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
	}
	var cmd tea.Cmd
	if m.tabIdx == 0 {
		m.emailInput, cmd = m.emailInput.Update(msg)
	}
	return m, cmd
}

func (m ForgotPasswordModel) View() string {
	var sb strings.Builder
	sb.WriteString(mingleLogo)
	if m.errTxt != "" && m.dangerState {
		e := wrap.String(wordwrap.String(m.errTxt, 60), 60)
		sb.WriteString(infoTxtStyle.Foreground(dangerColor).Render(e))
	} else {
		sb.WriteString(infoTxtStyle.Render("We'll mail you a code to reset the password, esc to go back"))
	}
	if m.tabIdx == 0 {
		sb.WriteString(activeInputStyle.Render(m.emailInput.View()))
	} else {
		sb.WriteString(inputStyle.Render(m.emailInput.View()))
	}
	btnTxt := "Send Code"
	if m.spin {
		btnTxt = m.spinner.View()
	}
	if m.tabIdx == 1 {
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

func (m *ForgotPasswordModel) validateForgotPasswordModel() error {
	maps.Clear(m.ev.Errors)
	domain.ValidateEmail(m.emailInput.Value(), m.ev)
	if m.ev.HasErrors() {
		m.dangerState = true
		populateErr(&m.emailInput, m.ev.Errors["email"])
		maps.Clear(m.ev.Errors)
		return errors.New("validation errors")
	}
	return nil
}

func (m ForgotPasswordModel) sendCode() tea.Cmd {
	return func() tea.Msg {
		if err := m.client.ForgotPassword(m.emailInput.Value()); err != nil {
			return errMsg{err: err.Error()}
		}
		return doneMsg{}
	}
}
