package tui

import "github.com/charmbracelet/lipgloss"

var (
	// These will be updated by any of the active models
	terminalWidth  = 100
	terminalHeight = 20

	primaryColor         = lipgloss.AdaptiveColor{Light: "#6A11CB", Dark: "#6A11CB"}
	primaryContrastColor = lipgloss.AdaptiveColor{Light: "#E9DFFB", Dark: "#1C1036"}
	secondaryColor       = lipgloss.AdaptiveColor{Light: "#2575FC", Dark: "#2575FC"}
	dangerColor          = lipgloss.AdaptiveColor{Light: "#FF2E55", Dark: "#FF2E55"}
	whiteColor           = lipgloss.AdaptiveColor{Light: "#202020", Dark: "#FFFCE4"}
	greyColor            = lipgloss.AdaptiveColor{Light: "#808080", Dark: "#383838"}
	darkGreyColor        = lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#555555"}

	mingleLogo = lipgloss.NewStyle().
			Border(lipgloss.InnerHalfBlockBorder(), true).
			BorderForeground(primaryColor).
			Background(primaryColor).
			Width(10).
			MarginBottom(2).
			Align(lipgloss.Center).
			Italic(true).
			Render("Mingle")

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(greyColor).
			Foreground(greyColor).
			Padding(0, 2, 0, 3).
			Margin(1, 0, 1, 0).
			Align(lipgloss.Center)
	activeInputStyle = inputStyle.
				Border(lipgloss.ThickBorder(), false, false, true, false).
				BorderForeground(primaryColor).
				Foreground(primaryColor)

	btnInputStyle = inputStyle.
			Border(lipgloss.HiddenBorder()).
			MarginBottom(0)
	activeBtnInputStyle = btnInputStyle.
				BorderForeground(primaryColor).
				Foreground(primaryColor)

	buttonStyle = lipgloss.NewStyle().
			Background(greyColor).
			Foreground(whiteColor).
			Padding(0, 1).
			Align(lipgloss.Center).
			Inline(true)
	activeButtonStyle = buttonStyle.
				Background(primaryColor)
	dangerButtonStyle = buttonStyle.
				Background(dangerColor)

	container = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(primaryColor).
			Width(70).
			Height(25).
			Align(lipgloss.Center).
			AlignVertical(lipgloss.Center)
	containerCentered = func(content string) string {
		return lipgloss.Place(terminalWidth, terminalHeight,
			lipgloss.Center, lipgloss.Center,
			content,
			lipgloss.WithWhitespaceChars("▄▀"),
			lipgloss.WithWhitespaceForeground(greyColor))
	}

	infoTxtStyle = lipgloss.NewStyle().
			Margin(1, 0, 2, 0).
			Padding(0, 1, 0, 1).
			AlignHorizontal(lipgloss.Center).
			Foreground(whiteColor)

	spinnerStyle = lipgloss.NewStyle().Foreground(primaryColor)

	tabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(greyColor)
	activeTabStyle = tabStyle.
			Foreground(primaryColor).
			Bold(true).
			Underline(true)
	statusBarStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Padding(0, 1)
	errStatusStyle = lipgloss.NewStyle().
			Foreground(dangerColor).
			Padding(0, 1)

	errContainerStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(dangerColor).
				Width(64).
				Padding(1, 2)
	errHeaderStyle = lipgloss.NewStyle().
			Foreground(dangerColor).
			Bold(true)
	errDescStyle = lipgloss.NewStyle().
			Foreground(whiteColor).
			MarginTop(1)

	// messages screen
	chatListContainerStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(primaryColor).
				Padding(0, 1)
	chatContainerStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(primaryColor)
	chatHeaderStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(whiteColor).
			Bold(true).
			Padding(0, 1)
	chatTxtareaStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), true, false, false, false).
				BorderForeground(greyColor).
				Padding(0, 1)
	chatBubbleContainer = lipgloss.NewStyle().
				Padding(0, 1)
	chatBubbleLStyle = lipgloss.NewStyle().
				Background(greyColor).
				Foreground(whiteColor).
				Padding(0, 1)
	chatBubbleRStyle = lipgloss.NewStyle().
				Background(primaryColor).
				Foreground(whiteColor).
				Padding(0, 1)
	dateSeparatorStyle = lipgloss.NewStyle().
				Foreground(primaryColor).
				Background(primaryContrastColor).
				Padding(0, 1).
				Italic(true)

	postCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(greyColor).
			Padding(0, 1).
			MarginBottom(1)
	selectedPostCardStyle = postCardStyle.
				BorderForeground(primaryColor)
)

// narrowLayout reports whether the terminal is too narrow to show the chat
// list and the message panel side by side.
func narrowLayout() bool {
	return terminalWidth < 80
}

func chatListWidth() int {
	if narrowLayout() {
		return terminalWidth - 2
	}
	return terminalWidth * 35 / 100
}

func chatWidth() int {
	if narrowLayout() {
		return terminalWidth - 2
	}
	return terminalWidth - chatListWidth() - 2
}

func chatHeight() int {
	return terminalHeight - 4
}
