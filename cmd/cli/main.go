package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/admitchat/admitchat/internal/application"
	"github.com/admitchat/admitchat/internal/infrastructure/config"
	"github.com/admitchat/admitchat/internal/infrastructure/logger"
	"github.com/admitchat/admitchat/internal/interfaces/tui"
)

const (
	cliName    = "admitchat"
	cliVersion = "0.1.0"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   cliName,
		Short: "Terminal client for the admissions chat assistant",
		Long:  "Interactive terminal chat against the admissions assistant, with the same lead-capture and transcript persistence as the web widget.",
		RunE:  runChat,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s v%s\n", cliName, cliVersion)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	// Quiet logger so log lines don't tear the TUI
	log, err := logger.NewLogger(logger.Config{
		Level:      "error",
		Format:     "console",
		OutputPath: "stderr",
	})
	if err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}

	app, err := application.NewApp(cfg, log)
	if err != nil {
		return fmt.Errorf("app init: %w", err)
	}

	model := tui.New(app.NewChatSession(), app.LeadPrompt())
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat client: %w", err)
	}
	return nil
}
