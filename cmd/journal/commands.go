package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func NewCrawlCmd() *cobra.Command {
	var urlsFile string
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl the archive into the compiled corpus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.log.Sync()
			return a.run(cmd.Context(), func(ctx context.Context) error {
				return a.crawl(ctx, urlsFile)
			})
		},
	}
	cmd.Flags().StringVar(&urlsFile, "urls", "", "crawl only the entry URLs in this file (csv with 'url' column, ndjson or plain list)")
	return cmd
}

func NewClassifyCmd() *cobra.Command {
	var decisionsFile string
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Write the poems of an existing compiled corpus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.log.Sync()
			return a.run(cmd.Context(), func(context.Context) error {
				return a.classify(decisionsFile)
			})
		},
	}
	cmd.Flags().StringVar(&decisionsFile, "decisions", "", "also write one NDJSON classification record per entry to this file")
	return cmd
}

const previewLen = 500

func NewEntryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "entry <url>",
		Short: "Fetch one entry page and print what would be extracted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.log.Sync()

			e, ok := a.newCrawler().Entry(cmd.Context(), args[0])
			if !ok {
				return fmt.Errorf("could not fetch %s", args[0])
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Title: %s\n", e.Title)
			fmt.Fprintf(out, "Date: %s\n", e.Date)
			fmt.Fprintln(out, "Content Preview:")
			preview := []rune(e.Content)
			if len(preview) > previewLen {
				preview = preview[:previewLen]
			}
			fmt.Fprintln(out, string(preview))
			return nil
		},
	}
}
