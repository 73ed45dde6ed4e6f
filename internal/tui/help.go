package tui

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/minglehq/mingle/internal/tui/embed"
)

type HelpModel struct {
	vp         viewport.Model
	usageFiles *embed.EmbeddedFiles
	focus      bool
}

func InitialHelpModel() HelpModel {
	vp := viewport.New(50, 30)
	vp.MouseWheelEnabled = true
	return HelpModel{
		vp:         vp,
		usageFiles: embed.EmbeddedFilesInstance(),
	}
}

func (m HelpModel) Init() tea.Cmd {
	return nil
}

func (m HelpModel) Update(msg tea.Msg) (HelpModel, tea.Cmd) {
	if m.focus {
		m.vp.KeyMap = viewport.DefaultKeyMap()
	} else {
		m.vp.KeyMap = viewport.KeyMap{}
	}
	if _, ok := msg.(tea.WindowSizeMsg); ok {
		m.vp.Width = terminalWidth - 2
		m.vp.Height = max(0, terminalHeight-6)
		g, err := glamour.NewTermRenderer(
			glamour.WithStylesFromJSONBytes(m.usageFiles.UsageTheme),
			glamour.WithWordWrap(min(100, m.vp.Width-2)),
		)
		if err != nil {
			slog.Error(err.Error())
			return m, nil
		}
		md, err := g.Render(string(m.usageFiles.UsageFile))
		if err != nil {
			slog.Error(err.Error())
			return m, nil
		}
		m.vp.SetContent(md)
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m HelpModel) View() string {
	return m.vp.View()
}
