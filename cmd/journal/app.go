package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"journal-archive-crawler/internal/classifier"
	"journal-archive-crawler/internal/config"
	"journal-archive-crawler/internal/crawler"
	"journal-archive-crawler/internal/ioformats"
	"journal-archive-crawler/internal/models"
	"journal-archive-crawler/internal/monitoring"
	"journal-archive-crawler/internal/parser"
	"journal-archive-crawler/internal/report"
	"journal-archive-crawler/pkg/logger"
)

type app struct {
	cfg     *config.Config
	log     *logger.Logger
	metrics *monitoring.Metrics
}

func newApp(cmd *cobra.Command) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.LogLevel = "debug"
	}
	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		cfg.MetricsAddr = addr
	}
	return &app{
		cfg:     cfg,
		log:     logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile}),
		metrics: monitoring.NewMetrics(),
	}, nil
}

// run executes fn, alongside the metrics server when one is configured.
func (a *app) run(ctx context.Context, fn func(ctx context.Context) error) error {
	if a.cfg.MetricsAddr == "" {
		return fn(ctx)
	}
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return monitoring.NewServer(a.cfg.MetricsAddr, a.metrics, a.log).Run(gctx)
	})
	g.Go(func() error {
		defer stop()
		return fn(gctx)
	})
	return g.Wait()
}

func (a *app) newCrawler() *crawler.Crawler {
	return crawler.New(
		crawler.Config{
			Origin:    a.cfg.Origin,
			StartYear: a.cfg.StartYear,
			EndYear:   a.cfg.EndYear,
			Delay:     a.cfg.Delay,
		},
		crawler.NewHTTPClient(a.cfg.Timeout, a.cfg.MaxBodyBytes, a.cfg.UserAgent),
		parser.New(a.cfg.Origin),
		a.log,
		crawler.WithRecorder(a.metrics),
	)
}

func (a *app) newClassifier() *classifier.Classifier {
	cc := a.cfg.Classifier
	cl := classifier.New(classifier.Rules(cc.BodyVetoes, cc.TitleVetoes, cc.PoemTitles, cc.ProseTitles))
	for _, t := range cl.Conflicts() {
		a.log.Warnf("%q is listed as both a poem and a prose title; it will classify as prose", t)
	}
	return cl
}

// crawl scrapes the archive, or only the URLs listed in urlsFile, and writes
// the compiled corpus. Nothing is written if the crawl is interrupted.
func (a *app) crawl(ctx context.Context, urlsFile string) error {
	c := a.newCrawler()

	var (
		entries []models.Entry
		err     error
	)
	if urlsFile != "" {
		urls, rerr := ioformats.ReadURLs(urlsFile)
		if rerr != nil {
			return fmt.Errorf("read urls: %w", rerr)
		}
		urls = crawler.SortEntryURLs(urls)
		a.log.Infof("Total entries listed: %d", len(urls))
		entries, err = c.Scrape(ctx, urls)
	} else {
		entries, err = c.Crawl(ctx)
	}
	if err != nil {
		return fmt.Errorf("crawl interrupted after %d entries: %w", len(entries), err)
	}

	if err := ioformats.WriteCorpusFile(a.cfg.CorpusFile, entries); err != nil {
		return err
	}
	a.log.Infof("Compilation saved to %s", a.cfg.CorpusFile)
	return nil
}

// classify filters the compiled corpus down to its poems.
func (a *app) classify(decisionsFile string) error {
	corpus, err := ioformats.ReadCorpusFile(a.cfg.CorpusFile)
	if err != nil {
		return fmt.Errorf("read corpus: %w", err)
	}

	cl := a.newClassifier()
	res := cl.Filter(corpus.Blocks)
	for _, d := range res.Decisions {
		a.metrics.ObserveDecision(d)
		a.log.Debugf("%q: poem=%t heuristic=%t rule=%s", d.Title, d.IsPoem, d.Heuristic, d.Rule)
	}
	a.metrics.ObserveSkipped(res.Skipped)
	if res.Skipped > 0 {
		a.log.Warnf("Skipped %d empty or malformed blocks", res.Skipped)
	}

	if err := ioformats.WritePoemsFile(a.cfg.PoemsFile, res.Poems); err != nil {
		return err
	}
	if decisionsFile != "" {
		if err := ioformats.WriteNDJSONFile(decisionsFile, res.Decisions); err != nil {
			return err
		}
	}
	if a.cfg.ReportFile != "" {
		if err := a.writeReport(report.Summary{Blocks: corpus.Blocks, Result: res, Conflicts: cl.Conflicts()}); err != nil {
			return err
		}
	}

	a.log.Infof("Filtered %d poems out of %d entries.", len(res.Poems), len(corpus.Blocks))
	return nil
}

func (a *app) writeReport(s report.Summary) error {
	f, err := os.Create(a.cfg.ReportFile)
	if err != nil {
		return err
	}
	if err := report.Write(f, s); err != nil {
		f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	return f.Close()
}
