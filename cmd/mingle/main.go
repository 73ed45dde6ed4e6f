package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lmittmann/tint"
	zone "github.com/lrstanley/bubblezone"
	"github.com/minglehq/mingle/internal/client"
	"github.com/minglehq/mingle/internal/tui"
)

func main() {
	slogger := slog.New(tint.NewHandler(os.Stderr, nil))
	// initialization failures halt the application on startup rather than
	// surfacing as issues while the app is running
	if err := client.Init(); err != nil {
		slogger.Error(err.Error())
		os.Exit(1)
	}
	f, err := tea.LogToFile("Mingle.log", "Mingle")
	if err != nil {
		slogger.Error(err.Error())
		os.Exit(1)
	}
	defer f.Close()
	// client code logs through slog, route it to the same file so it never
	// scribbles over the alt screen
	slog.SetDefault(slog.New(tint.NewHandler(f, &tint.Options{NoColor: true})))

	var model tea.Model = tui.InitialTabContainerModel()
	if client.Get().AuthToken == "" {
		model = tui.InitialLoginModel()
	}
	zone.NewGlobal()
	if _, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run(); err != nil {
		slogger.Error(err.Error())
		os.Exit(1)
	}
}
