package main

import (
	"fmt"
	"os"

	"github.com/themescrape/themescrape/internal/db"
	"github.com/themescrape/themescrape/internal/resolve"
	"github.com/themescrape/themescrape/internal/runs"
	"github.com/themescrape/themescrape/internal/scrape"
	"github.com/themescrape/themescrape/internal/tokens"
	"github.com/themescrape/themescrape/pkg/help"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "themescrape",
		Usage: "extract and resolve design tokens from rendered web UIs",
		Commands: []*cli.Command{
			{
				Name:  "scrape",
				Usage: "Fetch pages and cache their color/dimension observations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "urls",
						Usage: "Comma-separated list of URLs to scrape",
					},
					&cli.IntFlag{
						Name:  "session",
						Usage: "Rescrape the URLs of a previous session",
					},
					&cli.BoolFlag{
						Name:  "failed-only",
						Usage: "With --session, retry only the failed URLs",
					},
					&cli.BoolFlag{
						Name:  "force-fetch",
						Usage: "Ignore cached artifacts and refetch everything",
					},
					&cli.StringFlag{
						Name:  "max-age",
						Value: "24h",
						Usage: "Reuse cached sessions/artifacts younger than this",
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "Path to a config.yaml (flags override file values)",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent fetch workers",
					},
					&cli.StringFlag{
						Name:  "output-dir",
						Usage: "Artifact directory root",
					},
					&cli.StringFlag{
						Name:  "features",
						Value: "full",
						Usage: "Sample depth: minimal, inline, or full",
					},
					&cli.StringFlag{
						Name:  "filter",
						Usage: "Observation filter strategy, e.g. 'colors-only' or 'min-frequency=3'",
					},
					&cli.StringFlag{
						Name:  "output-mode",
						Value: "tier2",
						Usage: "Output mode: tier2 (session dirs), summary, or json",
					},
					&cli.StringFlag{
						Name:  "format",
						Value: "json",
						Usage: "Stdout format for summary/json modes: json or yaml",
					},
					&cli.StringFlag{
						Name:  "summary-fields",
						Usage: "Comma-separated field subset for summary output",
					},
					&cli.BoolFlag{
						Name:  "resolve",
						Usage: "Resolve tokens immediately after scraping",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "Errors only on stderr",
					},
				},
				Action: scrape.ScrapeAction,
			},
			{
				Name:  "resolve",
				Usage: "Compile cached observations into a design-token run",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "session",
						Usage: "Session to resolve (latest when omitted)",
					},
					&cli.StringFlag{
						Name:  "files",
						Usage: "Comma-separated observation YAML files to resolve instead of a session",
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "Path to a config.yaml (flags override file values)",
					},
					&cli.StringFlag{
						Name:  "output-dir",
						Usage: "Artifact directory root",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "Errors only on stderr",
					},
				},
				Action: resolve.ResolveAction,
			},
			{
				Name:  "export",
				Usage: "Render a run's tokens as CSS, SCSS, or JSON",
				Flags: []cli.Flag{
					runFlag(),
					&cli.StringFlag{
						Name:  "format",
						Value: "css",
						Usage: "Export format: css, scss, or json",
					},
					&cli.StringFlag{
						Name:  "out",
						Usage: "Write to this file instead of stdout",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "Errors only on stderr",
					},
				},
				Action: tokens.ExportAction,
			},
			{
				Name:  "docs",
				Usage: "Generate a run's standalone HTML style guide",
				Flags: []cli.Flag{
					runFlag(),
					&cli.StringFlag{
						Name:  "out",
						Usage: "Style guide path (defaults into the run's artifact dir)",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "Errors only on stderr",
					},
				},
				Action: tokens.DocsAction,
			},
			{
				Name:   "preview",
				Usage:  "Draw a run's palette as swatches in the terminal",
				Flags:  []cli.Flag{runFlag()},
				Action: tokens.PreviewAction,
			},
			{
				Name:  "runs",
				Usage: "Query past resolution runs",
				Subcommands: []*cli.Command{
					{
						Name:  "list",
						Usage: "List recent runs, newest first",
						Flags: []cli.Flag{
							&cli.IntFlag{
								Name:  "limit",
								Usage: "Maximum number of runs to list",
							},
							&cli.IntFlag{
								Name:  "session",
								Usage: "Only runs resolved from this session",
							},
							formatFlag("yaml"),
						},
						Action: runs.RunsAction,
					},
					{
						Name:  "show",
						Usage: "Show one run's tokens",
						Flags: []cli.Flag{
							runFlag(),
							&cli.StringFlag{
								Name:  "filter",
								Usage: "Only tokens whose name contains this substring",
							},
							formatFlag("yaml"),
						},
						Action: runs.RunsAction,
					},
					{
						Name:      "diff",
						Usage:     "Compare two runs token by token",
						ArgsUsage: "<base-run-id> <other-run-id>",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "filter",
								Usage: "Only tokens whose name contains this substring",
							},
							formatFlag("yaml"),
						},
						Action: runs.RunsAction,
					},
					{
						Name:  "export",
						Usage: "Export one run's tokens through the runs API",
						Flags: []cli.Flag{
							runFlag(),
							formatFlag("css"),
						},
						Action: runs.RunsAction,
					},
					{
						Name:   "trend",
						Usage:  "Reserved: confidence trend across runs",
						Flags:  []cli.Flag{formatFlag("yaml")},
						Action: runs.RunsAction,
					},
					{
						Name:   "suggest",
						Usage:  "Suggest next steps for a run",
						Flags:  []cli.Flag{runFlag()},
						Action: runs.SuggestAction,
					},
				},
			},
			{
				Name:  "db",
				Usage: "Inspect the scrape/run database",
				Subcommands: []*cli.Command{
					{
						Name:  "sessions",
						Usage: "List all sessions with stats",
						Flags: []cli.Flag{
							&cli.IntFlag{
								Name:  "limit",
								Usage: "Maximum number of sessions to list",
							},
						},
						Action: db.SessionsAction,
					},
					{
						Name:      "session",
						Usage:     "Show details for a session (latest when omitted)",
						ArgsUsage: "[session-id]",
						Action:    db.SessionAction,
					},
					{
						Name:  "sources",
						Usage: "List scraped sources with theme/language metadata",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "domain",
								Usage: "Only sources whose domain contains this substring",
							},
							&cli.StringFlag{
								Name:  "theme",
								Usage: "Only sources detected as this theme (light/dark)",
							},
						},
						Action: db.SourcesAction,
					},
					{
						Name:  "query",
						Usage: "Filter sessions",
						Flags: []cli.Flag{
							&cli.BoolFlag{
								Name:  "today",
								Usage: "Only sessions created today",
							},
							&cli.BoolFlag{
								Name:  "failed",
								Usage: "Only sessions with failed sources",
							},
							&cli.StringFlag{
								Name:  "url",
								Usage: "Only sessions containing a URL matching this pattern",
							},
						},
						Action: db.QuerySessionsAction,
					},
					{
						Name:      "show",
						Usage:     "Print cached observations YAML for a source",
						ArgsUsage: "<source-id-or-url>[,<id>...]",
						Action:    db.ShowAction,
					},
					{
						Name:   "init",
						Usage:  "Initialize the database schema",
						Action: db.InitAction,
					},
				},
			},
			{
				Name:  "quickstart",
				Usage: "Print the quick-start reference",
				Action: func(c *cli.Context) error {
					fmt.Print(help.ColdstartYAML)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runFlag is shared by every command that targets one run.
func runFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "run",
		Usage: "Run ID or unique prefix (latest run when omitted)",
	}
}

func formatFlag(value string) cli.Flag {
	return &cli.StringFlag{
		Name:  "format",
		Value: value,
		Usage: "Output format",
	}
}
