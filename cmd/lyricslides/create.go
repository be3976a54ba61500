package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/a-h/lyricslides/client"
	"github.com/a-h/lyricslides/host"
	"github.com/a-h/lyricslides/pane"
	"github.com/a-h/lyricslides/slides"
)

type CreateCommand struct {
	Endpoint string `help:"The URL of the slide generation endpoint." env:"GENERATION_ENDPOINT_URL"`
	URL      string `arg:"" optional:"" help:"The URL of the page to create slides from."`
	Output   string `help:"The presentation file to write." short:"o" default:"slides.pptx"`
	LogLevel string `help:"The log level to use." env:"LOG_LEVEL" default:"info"`
}

func (c CreateCommand) Run(ctx context.Context) (err error) {
	log := getLogger(c.LogLevel)
	doc := host.NewPresentation()
	p := newPane(log, c.Endpoint, doc)

	result, err := p.Create(ctx, c.URL)
	if result.Created > 0 {
		// Slides created before a failure stay in the document, so keep them.
		if saveErr := savePresentation(doc, c.Output); saveErr != nil {
			return errors.Join(err, saveErr)
		}
		log.Info("presentation saved", slog.String("file", c.Output), slog.Int("slides", result.Created))
	}
	return err
}

func newPane(log *slog.Logger, endpoint string, doc *host.Presentation) *pane.Pane {
	return pane.New(log, client.New(endpoint), slides.New(log, doc))
}

func savePresentation(doc *host.Presentation, name string) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", name, closeErr)
		}
	}()
	if err = doc.WritePPTX(f); err != nil {
		return fmt.Errorf("failed to save %s: %w", name, err)
	}
	return nil
}
