package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/a-h/lyricslides/client"
	"gopkg.in/yaml.v3"
)

type LyricsCommand struct {
	Endpoint string `help:"The URL of the slide generation endpoint." env:"GENERATION_ENDPOINT_URL"`
	URL      string `arg:"" help:"The URL of the page to generate slides from."`
	Format   string `help:"The output format." enum:"json,yaml" default:"json"`
	Pretty   bool   `help:"Pretty print the JSON output." default:"true"`
}

func (c LyricsCommand) Run(ctx context.Context) (err error) {
	resp, err := client.New(c.Endpoint).Generate(ctx, c.URL)
	if err != nil {
		return fmt.Errorf("failed to generate slides: %w", err)
	}

	if c.Format == "yaml" {
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(resp)
	}
	enc := json.NewEncoder(os.Stdout)
	if c.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(resp)
}
