package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/sandevgo/kalevalagpt/internal/service/conversation"
	"github.com/sandevgo/kalevalagpt/internal/transport/tui"
	"github.com/sandevgo/kalevalagpt/pkg/srv"
	"github.com/spf13/cobra"
)

var (
	chatGatewayURL string
	chatLogFile    string
	chatMarkdown   bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive chat",
	Long:  `Opens a terminal chat. Each question is sent to the gateway with the current Top K and similarity settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		// The terminal belongs to the UI; logs go to a file.
		logFile, err := os.OpenFile(chatLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer logFile.Close()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx, logFile)
		defer flushLog()

		client := NewGatewayClient(ctx, chatGatewayURL)
		app := tui.NewApp(conversation.NewSession(), client).WithMarkdown(chatMarkdown)

		return srv.Run(ctx, app, srv.NewCleanup(client.Close))
	},
}

func init() {
	chatCmd.Flags().StringVarP(&chatGatewayURL, "gateway", "g", "", "gateway base URL (overrides KALEVALA_GATEWAY_URL)")
	chatCmd.Flags().StringVar(&chatLogFile, "log-file", filepath.Join(os.TempDir(), "kalevala-chat.log"), "where to write logs while the chat is open")
	chatCmd.Flags().BoolVar(&chatMarkdown, "markdown", false, "render answers as markdown instead of verbatim text")
	rootCmd.AddCommand(chatCmd)
}
