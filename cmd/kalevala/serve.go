package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sandevgo/kalevalagpt/internal/core"
	"github.com/sandevgo/kalevalagpt/pkg/log"
	"github.com/sandevgo/kalevalagpt/pkg/srv"
	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the gateway in front of the inference API",
	Long:  `Serves POST /api/chat, relays questions to the inference API with the configured API key and cleans up its answers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// logger setup
		var flushLog func()
		ctx, flushLog = setupLogger(ctx, os.Stdout)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msgf("starting %s gateway", core.ServiceName)

		services := NewGatewayServices(ctx, servePort)

		if err := srv.Run(ctx, services...); err != nil {
			logger.Error().Err(err).Msg("gateway stopped with error")
			return err
		}
		logger.Info().Msg("gateway has been shut down gracefully")
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}
