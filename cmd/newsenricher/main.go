package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"NewsEnricher/internal/app"
	"NewsEnricher/internal/config"
	"NewsEnricher/internal/domain"
	"NewsEnricher/internal/logging"
)

func main() {
	if err := newCLI(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newCLI(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "newsenricher",
		Usage:     "Enrich news articles with summaries, media and context",
		Writer:    out,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration",
				EnvVars: []string{"NEWS_ENRICHER_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "process",
				Usage:     "Enrich and store an article read as JSON from a file or stdin",
				ArgsUsage: "[file|-]",
				Action:    processCommand,
			},
			{
				Name:   "scrape",
				Usage:  "Scrape an article page, then enrich and store it",
				Action: scrapeCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Usage: "Article URL", Required: true},
				},
			},
			{
				Name:   "rss",
				Usage:  "Enrich and store the latest items of an RSS feed",
				Action: rssCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "feed-url", Aliases: []string{"f"}, Usage: "Feed URL", Required: true},
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "Items to ingest (1-10)", Value: 3},
				},
			},
			{
				Name:      "get",
				Usage:     "Print a stored record",
				ArgsUsage: "<id>",
				Action:    getCommand,
			},
			{
				Name:   "list",
				Usage:  "Print every stored record, newest first when the database is used",
				Action: listCommand,
			},
			{
				Name:   "seed",
				Usage:  "Enrich and store the bundled sample article",
				Action: seedCommand,
			},
			{
				Name:   "serve",
				Usage:  "Poll configured feeds on the cron schedule",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "run-now", Usage: "Run the feeds once before waiting for the schedule"},
				},
			},
		},
	}
}

// withApp loads configuration, builds the application and runs fn with it.
func withApp(c *cli.Context, fn func(ctx context.Context, a *app.Application) error) error {
	if path := c.String("config"); path != "" {
		if err := os.Setenv("NEWS_ENRICHER_CONFIG", path); err != nil {
			return fmt.Errorf("set config path: %w", err)
		}
	}
	cfg := config.Load()
	if level := c.String("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	logger := logging.NewWithWriter(c.App.ErrWriter, cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Warn("close application", "error", err)
		}
	}()

	return fn(ctx, application)
}

func processCommand(c *cli.Context) error {
	item, err := readItem(c)
	if err != nil {
		return err
	}
	if err := item.Validate(); err != nil {
		return err
	}

	return withApp(c, func(ctx context.Context, a *app.Application) error {
		rec, err := a.Service().Process(ctx, item)
		if err != nil {
			return err
		}
		return printJSON(c.App.Writer, map[string]any{
			"message": "News article processed successfully",
			"id":      rec.ID,
			"data":    rec,
		})
	})
}

func readItem(c *cli.Context) (domain.RawItem, error) {
	var r io.Reader = os.Stdin
	if path := c.Args().First(); path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return domain.RawItem{}, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	var item domain.RawItem
	if err := json.NewDecoder(r).Decode(&item); err != nil {
		return domain.RawItem{}, fmt.Errorf("invalid article json: %w", err)
	}
	return item, nil
}

func scrapeCommand(c *cli.Context) error {
	return withApp(c, func(ctx context.Context, a *app.Application) error {
		rec, err := a.Pipeline().IngestURL(ctx, c.String("url"))
		if err != nil {
			return err
		}
		return printJSON(c.App.Writer, map[string]any{
			"message": "News ingested from URL successfully",
			"id":      rec.ID,
			"data":    rec,
		})
	})
}

func rssCommand(c *cli.Context) error {
	limit := c.Int("limit")
	if limit < 1 || limit > 10 {
		return errors.New("limit must be between 1 and 10")
	}

	return withApp(c, func(ctx context.Context, a *app.Application) error {
		results, err := a.Pipeline().IngestFeed(ctx, c.String("feed-url"), limit)
		if err != nil {
			return err
		}
		return printJSON(c.App.Writer, map[string]any{
			"message": "RSS ingestion completed",
			"count":   len(results),
			"results": results,
		})
	})
}

func getCommand(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return errors.New("news id is required")
	}

	return withApp(c, func(ctx context.Context, a *app.Application) error {
		rec, err := a.Service().Get(ctx, id)
		if err != nil {
			return err
		}
		return printJSON(c.App.Writer, rec)
	})
}

func listCommand(c *cli.Context) error {
	return withApp(c, func(ctx context.Context, a *app.Application) error {
		records, err := a.Service().List(ctx)
		if err != nil {
			return err
		}
		return printJSON(c.App.Writer, map[string]any{
			"count":    len(records),
			"articles": records,
		})
	})
}

func seedCommand(c *cli.Context) error {
	return withApp(c, func(ctx context.Context, a *app.Application) error {
		rec, err := a.Service().Seed(ctx)
		if err != nil {
			return err
		}
		return printJSON(c.App.Writer, map[string]any{
			"message": "Sample data seeded successfully",
			"data":    rec,
		})
	})
}

func serveCommand(c *cli.Context) error {
	return withApp(c, func(ctx context.Context, a *app.Application) error {
		return a.Serve(ctx, c.Bool("run-now"))
	})
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
