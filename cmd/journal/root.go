package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Compile a blog archive and collect its poems",
		Long: `journal walks every monthly index page of a blog archive, scrapes each
entry into a compiled markdown corpus, then classifies the corpus entries as
poem or prose and writes the poems to a separate file.

With no subcommand both steps run in sequence.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.log.Sync()
			return a.run(cmd.Context(), func(ctx context.Context) error {
				if err := a.crawl(ctx, ""); err != nil {
					return err
				}
				return a.classify("")
			})
		},
	}

	cmd.PersistentFlags().StringP("config", "c", "", "YAML config file (defaults are compiled in)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().String("metrics-addr", "", "Serve /health and /metrics on this address while running")

	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewClassifyCmd())
	cmd.AddCommand(NewEntryCmd())
	return cmd
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
