package runs

import (
	"fmt"

	"github.com/themescrape/themescrape/models"
	"github.com/themescrape/themescrape/pkg/runs"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// RunsAction handles Runs API commands.
func RunsAction(c *cli.Context) error {
	// Verb-specific parameters travel in the constraints map
	constraints := make(map[string]interface{})
	if c.IsSet("limit") {
		constraints["limit"] = c.Int("limit")
	}

	// Build request from CLI flags
	req := models.Request{
		Verb:        c.Command.Name, // list, show, diff, export, trend
		RunID:       c.String("run"),
		Session:     int64(c.Int("session")),
		Filter:      c.String("filter"),
		Format:      c.String("format"),
		Constraints: constraints,
	}

	// diff takes its two run IDs positionally
	if req.Verb == runs.VerbDIFF {
		if c.NArg() < 2 {
			return fmt.Errorf("diff requires two run IDs: themescrape runs diff <base> <other>")
		}
		req.RunID = c.Args().Get(0)
		req.CompareID = c.Args().Get(1)
	}

	resp := runs.Handle(req)

	// Output response as YAML
	yamlBytes, err := yaml.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	fmt.Print(string(yamlBytes))
	return nil
}

// SuggestAction prints next-step suggestions for a run. An empty --run
// means the latest run.
func SuggestAction(c *cli.Context) error {
	suggestions, err := runs.SuggestFromRun(c.String("run"))
	if err != nil {
		return fmt.Errorf("failed to generate suggestions: %w", err)
	}

	fmt.Print(suggestions)
	return nil
}
