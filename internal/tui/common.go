package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/minglehq/mingle/internal/client"
	"github.com/minglehq/mingle/internal/domain"
)

// once ioStatus is not zero valued & spinnerSpinCmd is returned,
// TabContainerModel's spinner will spin with ioStatus until spinnerResetCmd
var ioStatus string

type errMsg struct {
	err  string
	code int
}

type doneMsg struct{}

// spinMsg & resetSpinnerMsg drive the status bar spinner in TabContainerModel
type spinMsg struct{}
type resetSpinnerMsg struct{}

func spinnerSpinCmd(status string) tea.Cmd {
	return func() tea.Msg {
		ioStatus = status
		return spinMsg{}
	}
}

func spinnerResetCmd() tea.Msg {
	return resetSpinnerMsg{}
}

// requireAuthMsg redirects to the login flow, issued on 401s and logout.
type requireAuthMsg struct{}

// chatWithMsg navigates to the messages tab with a conversation target.
type chatWithMsg struct {
	peer domain.UserRef
}

// reopenChatMsg asks the messages screen to tear its session down and dial again.
type reopenChatMsg struct{}

// Messaging session broadcasts projected into tea messages.
type sessionOpenedMsg struct {
	session *client.ChatSession
}
type chatHeadsMsg []*domain.ChatHead
type activeLogMsg client.ConversationLog
type connStateMsg client.ConnState
type sessionErrMsg string

// truncate shortens text to maxLen display cells, rune and ANSI aware.
func truncate(text string, maxLen int) string {
	if maxLen <= 3 {
		return ansi.Truncate(text, maxLen, "")
	}
	return ansi.Truncate(text, maxLen, "...")
}
