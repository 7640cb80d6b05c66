package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sandevgo/kalevalagpt/internal/service/conversation"
	"github.com/spf13/cobra"
)

var (
	askGatewayURL string
	askTopK       int
	askCutoff     float64
	askInfo       bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question and print the answer",
	Long:  `Sends one question through the gateway and prints the answer. With --info the retrieved context and sources are printed as well.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context(), os.Stderr)
		defer flushLog()

		client := NewGatewayClient(ctx, askGatewayURL)

		session := conversation.NewSession()
		session.SetTopK(askTopK)
		session.SetSimilarityCutoff(askCutoff)

		reply, ok := session.Exchange(ctx, client, strings.Join(args, " "))
		if !ok {
			return nil
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, reply.Text)

		if askInfo && reply.HasInfo() {
			if reply.Context != nil && *reply.Context != "" {
				fmt.Fprintf(out, "\n%s\n", *reply.Context)
			}
			if len(reply.Sources) > 0 {
				fmt.Fprintf(out, "\nSources: %s\n", strings.Join(reply.Sources, ", "))
			}
		}
		return nil
	},
}

func init() {
	askCmd.Flags().StringVarP(&askGatewayURL, "gateway", "g", "", "gateway base URL (overrides KALEVALA_GATEWAY_URL)")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", conversation.DefaultTopK, "number of passages to retrieve (1-10)")
	askCmd.Flags().Float64VarP(&askCutoff, "similarity-cutoff", "s", conversation.DefaultSimilarityCutoff, "minimum passage similarity (0-1)")
	askCmd.Flags().BoolVarP(&askInfo, "info", "i", false, "print retrieved context and sources")
	rootCmd.AddCommand(askCmd)
}
