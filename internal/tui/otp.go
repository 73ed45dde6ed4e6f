package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/minglehq/mingle/internal/client"
	"github.com/minglehq/mingle/internal/domain"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	"golang.org/x/exp/maps"
)

type otpPurpose int

const (
	otpVerifyAccount otpPurpose = iota
	otpResetPassword
)

const resendTimeout = 15 * time.Second

type OtpModel struct {
	otpInput    textinput.Model
	spinner     spinner.Model
	timer       timer.Model
	spin        bool
	tabIdx      int // 0 -> otp input | 1 -> Verify btn | 2 -> Resend btn
	dangerState bool
	errTxt      string
	infoTxt     string
	userEmail   string
	purpose     otpPurpose
	ev          *domain.ErrValidation
	client      *client.Client
}

func InitialOTPModel(email string, purpose otpPurpose) OtpModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 4
	ti.Placeholder = "4-digit code..."
	ti.TextStyle = lipgloss.NewStyle().Foreground(primaryColor)
	ti.Cursor = cursor.New()
	ti.Cursor.SetMode(cursor.CursorHide)

	s := spinner.New()
	s.Style = spinnerStyle
	s.Spinner = spinner.Points

	return OtpModel{
		otpInput:  ti,
		spinner:   s,
		timer:     timer.New(resendTimeout),
		infoTxt:   "We've mailed a code to " + email,
		userEmail: email,
		purpose:   purpose,
		ev:        domain.NewErrValidation(),
		client:    client.Get(),
	}
}

func (m OtpModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.timer.Init())
}

func (m OtpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		terminalWidth = msg.Width
		terminalHeight = msg.Height

	case tea.KeyMsg:
		if m.tabIdx == 0 {
			m.otpInput.Focus()
		} else {
			m.otpInput.Blur()
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
			switch m.tabIdx {
			case 0:
				m.tabIdx++
			case 1:
				if m.spin {
					break
				}
				if err := m.validateOtpModel(); err != nil {
					return m, nil
				}
				m.spin = true
				return m, tea.Batch(m.spinner.Tick, m.verifyOtp())
			case 2:
				if m.timer.Timedout() && !m.spin {
					m.timer = timer.New(resendTimeout)
					return m, tea.Batch(m.timer.Init(), m.resendOtp())
				}
			}
		case "tab":
			m.tabIdx = (m.tabIdx + 1) % 3
		case "shift+tab":
			m.tabIdx--
			if m.tabIdx < 0 {
				m.tabIdx = 2
			}
		}

	case timer.TickMsg, timer.StartStopMsg:
		var cmd tea.Cmd
		m.timer, cmd = m.timer.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case errMsg:
		m.spin = false
		m.dangerState = true
		m.errTxt = msg.err
		m.otpInput.Reset()
		return m, nil

	case doneMsg:
		m.spin = false
		if m.purpose == otpResetPassword {
			reset := InitialResetPasswordModel(m.userEmail)
			return reset, reset.Init()
		}
		login := InitialLoginModel()
		return login, login.Init()
	}
	if m.otpInput.Focused() {
		m.otpInput.Placeholder = "4-digit code..."
		m.otpInput.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
	}
	var cmd tea.Cmd
	if m.tabIdx == 0 {
		m.otpInput, cmd = m.otpInput.Update(msg)
	}
	return m, cmd
}

func (m OtpModel) View() string {
	var sb strings.Builder
	sb.WriteString(mingleLogo)
	if m.errTxt != "" && m.dangerState {
		e := wrap.String(wordwrap.String(m.errTxt, 60), 60)
		sb.WriteString(infoTxtStyle.Foreground(dangerColor).Render(e))
	} else {
		sb.WriteString(infoTxtStyle.Render(m.infoTxt))
	}
	if m.tabIdx == 0 {
		sb.WriteString(activeInputStyle.Render(m.otpInput.View()))
	} else {
		sb.WriteString(inputStyle.Render(m.otpInput.View()))
	}
	verifyTxt := "Verify"
	if m.spin {
		verifyTxt = m.spinner.View()
	}
	resendTxt := "Resend"
	if !m.timer.Timedout() {
		resendTxt = "Resend in " + m.timer.View()
	}
	verifyBtn := buttonStyle.Render(verifyTxt)
	resendBtn := buttonStyle.Foreground(darkGreyColor).Render(resendTxt)
	if m.timer.Timedout() {
		resendBtn = buttonStyle.Render(resendTxt)
	}
	switch m.tabIdx {
	case 1:
		verifyBtn = activeButtonStyle.Render(verifyTxt)
		sb.WriteString(activeBtnInputStyle.Render(verifyBtn, resendBtn))
	case 2:
		if m.timer.Timedout() {
			resendBtn = activeButtonStyle.Render(resendTxt)
		}
		sb.WriteString(activeBtnInputStyle.Render(verifyBtn, resendBtn))
	default:
		sb.WriteString(btnInputStyle.Render(verifyBtn, resendBtn))
	}
	c := container
	if m.dangerState {
		c = c.BorderForeground(dangerColor)
	}
	return containerCentered(c.Render(sb.String()))
}

// Helpers & Stuff -----------------------------------------------------------------------------------------------------

func (m *OtpModel) validateOtpModel() error {
	maps.Clear(m.ev.Errors)
	domain.ValidateOTP(m.otpInput.Value(), m.ev)
	if m.ev.HasErrors() {
		m.dangerState = true
		populateErr(&m.otpInput, m.ev.Errors["otp"])
		maps.Clear(m.ev.Errors)
		return errors.New("validation errors")
	}
	return nil
}

func (m OtpModel) verifyOtp() tea.Cmd {
	return func() tea.Msg {
		if err := m.client.VerifyOtp(m.userEmail, m.otpInput.Value()); err != nil {
			return errMsg{err: err.Error()}
		}
		return doneMsg{}
	}
}

func (m OtpModel) resendOtp() tea.Cmd {
	return func() tea.Msg {
		if err := m.client.ResendOtp(m.userEmail); err != nil {
			return errMsg{err: err.Error()}
		}
		return nil
	}
}
