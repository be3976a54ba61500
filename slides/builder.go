package slides

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/a-h/lyricslides/host"
)

type Document interface {
	Run(ctx context.Context, f func(ctx context.Context, b *host.Batch) error) error
}

func New(log *slog.Logger, doc Document) Builder {
	return Builder{
		log: log,
		doc: doc,
	}
}

// Builder appends one "Title and Content" slide per body to a document.
type Builder struct {
	log *slog.Logger
	doc Document
}

// Title returns the title of the slide at index i.
func Title(title string, i int) string {
	if i == 0 {
		return title
	}
	return fmt.Sprintf("%s (Part %d)", title, i+1)
}

// Body converts literal \n escape sequences to line breaks.
func Body(body string) string {
	return strings.ReplaceAll(body, `\n`, "\n")
}

// Build appends the slides in order. Slides created before an error are left
// in the document, created is the number of slides appended.
func (b Builder) Build(ctx context.Context, title string, bodies []string) (created int, err error) {
	err = b.doc.Run(ctx, func(ctx context.Context, batch *host.Batch) error {
		for i, body := range bodies {
			added, err := b.buildSlide(ctx, batch, Title(title, i), Body(body))
			if added {
				created++
			}
			if err != nil {
				return fmt.Errorf("failed to build slide %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return created, err
	}
	b.log.Info("slides created", slog.String("title", title), slog.Int("count", created))
	return created, nil
}

// buildSlide reports added once the slide exists in the document, even if filling
// its placeholders later fails.
func (b Builder) buildSlide(ctx context.Context, batch *host.Batch, title, body string) (added bool, err error) {
	slide := batch.AddSlide(host.LayoutTitleAndContent)
	shapes := slide.LoadShapes()
	if err = batch.Sync(ctx); err != nil {
		return false, err
	}
	items, err := shapes.Items()
	if err != nil {
		return true, err
	}

	var placeholders []*host.ShapeProxy
	var formats []*host.PlaceholderFormat
	for _, shape := range items {
		if !shape.IsPlaceholder() {
			continue
		}
		placeholders = append(placeholders, shape)
		formats = append(formats, shape.LoadPlaceholderFormat())
	}
	if err = batch.Sync(ctx); err != nil {
		return true, err
	}

	for i, shape := range placeholders {
		pt, err := formats[i].Type()
		if err != nil {
			return true, err
		}
		switch pt {
		case host.PlaceholderTitle:
			shape.ReplaceText(title)
		case host.PlaceholderBody:
			shape.ReplaceText(body)
		}
	}
	if err = batch.Sync(ctx); err != nil {
		return true, err
	}
	if b.log.Enabled(ctx, slog.LevelDebug) {
		id, _ := slide.ID()
		b.log.Debug("slide created", slog.String("id", id), slog.String("title", title))
	}
	return true, nil
}
