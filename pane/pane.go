// Package pane runs the generate-then-build operation behind the task pane's
// button.
package pane

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/a-h/lyricslides/models"
)

var ErrBusy = errors.New("pane: a presentation is already being created")

type Generator interface {
	Generate(ctx context.Context, pageURL string) (models.GenerateResponse, error)
}

type Builder interface {
	Build(ctx context.Context, title string, bodies []string) (created int, err error)
}

func New(log *slog.Logger, generator Generator, builder Builder) *Pane {
	return &Pane{
		log:       log,
		generator: generator,
		builder:   builder,
	}
}

type Pane struct {
	log       *slog.Logger
	generator Generator
	builder   Builder
	busy      atomic.Bool
}

type Result struct {
	Title      string
	SlideCount int
	Created    int
}

// Busy reports whether Create is in flight.
func (p *Pane) Busy() bool {
	return p.busy.Load()
}

// Create generates slides for pageURL and appends them to the document.
// Calls made while another Create is in flight return ErrBusy.
func (p *Pane) Create(ctx context.Context, pageURL string) (result Result, err error) {
	if !p.busy.CompareAndSwap(false, true) {
		p.log.Warn("ignoring request, a presentation is already being created", slog.String("url", pageURL))
		return result, ErrBusy
	}
	defer p.busy.Store(false)

	p.log.Info("generating slides", slog.String("url", pageURL))
	resp, err := p.generator.Generate(ctx, pageURL)
	if err != nil {
		p.log.Error("failed to generate slides", slog.String("url", pageURL), slog.Any("error", err))
		return result, fmt.Errorf("failed to generate slides: %w", err)
	}
	result.Title = resp.Title
	result.SlideCount = resp.SlideCount
	if resp.SlideCount != len(resp.Slides) {
		p.log.Warn("slide count does not match the number of slides",
			slog.Int("slideCount", resp.SlideCount),
			slog.Int("slides", len(resp.Slides)))
	}

	result.Created, err = p.builder.Build(ctx, resp.Title, resp.Slides)
	if err != nil {
		p.log.Error("failed to create slides", slog.String("title", resp.Title), slog.Int("created", result.Created), slog.Any("error", err))
		return result, fmt.Errorf("failed to create slides: %w", err)
	}
	return result, nil
}
