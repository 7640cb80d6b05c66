package main

import (
	"fmt"

	"github.com/sandevgo/kalevalagpt/internal/config"
	"github.com/sandevgo/kalevalagpt/internal/service/ui"
	"github.com/sandevgo/kalevalagpt/pkg/env"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long:  `Prints the configuration resolved from the environment and .env. The API key is masked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context(), cmd.ErrOrStderr())
		defer flushLog()

		if err := initEnv(ctx); err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, ui.TitleStyle.Render("GATEWAY"))
		if gw, err := config.ParseGatewayConfig(); err != nil {
			fmt.Fprintln(out, ui.ErrorStyle.Render(err.Error()))
		} else {
			data, err := env.MarshalEnv(gw.Redacted())
			if err != nil {
				return err
			}
			fmt.Fprint(out, data)
		}

		fmt.Fprintln(out, ui.TitleStyle.Render("CLIENT"))
		client, err := config.ParseClientConfig()
		if err != nil {
			return err
		}
		data, err := env.MarshalEnv(client)
		if err != nil {
			return err
		}
		fmt.Fprint(out, data)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
