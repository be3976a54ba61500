package host

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("values are not available until the batch is synced", func(t *testing.T) {
		p := NewPresentation()
		err := p.Run(ctx, func(ctx context.Context, b *Batch) error {
			s := b.AddSlide(LayoutTitleAndContent)
			shapes := s.LoadShapes()
			if _, err := s.ID(); !errors.Is(err, ErrNotLoaded) {
				t.Errorf("expected ErrNotLoaded for slide ID, got %v", err)
			}
			if _, err := shapes.Items(); !errors.Is(err, ErrNotLoaded) {
				t.Errorf("expected ErrNotLoaded for shapes, got %v", err)
			}
			if p.Len() != 0 {
				t.Errorf("expected no slides before sync, got %d", p.Len())
			}
			if err := b.Sync(ctx); err != nil {
				return err
			}
			if _, err := s.ID(); err != nil {
				t.Errorf("unexpected error getting slide ID: %v", err)
			}
			items, err := shapes.Items()
			if err != nil {
				return err
			}
			if len(items) != 2 {
				t.Errorf("expected 2 shapes, got %d", len(items))
			}
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Len() != 1 {
			t.Errorf("expected 1 slide, got %d", p.Len())
		}
	})
	t.Run("placeholder types are loaded on sync", func(t *testing.T) {
		p := NewPresentation()
		var types []PlaceholderType
		err := p.Run(ctx, func(ctx context.Context, b *Batch) error {
			shapes := b.AddSlide(LayoutTitleAndContent).LoadShapes()
			if err := b.Sync(ctx); err != nil {
				return err
			}
			items, err := shapes.Items()
			if err != nil {
				return err
			}
			formats := make([]*PlaceholderFormat, len(items))
			for i, item := range items {
				formats[i] = item.LoadPlaceholderFormat()
			}
			if _, err := formats[0].Type(); !errors.Is(err, ErrNotLoaded) {
				t.Errorf("expected ErrNotLoaded, got %v", err)
			}
			if err := b.Sync(ctx); err != nil {
				return err
			}
			for _, f := range formats {
				pt, err := f.Type()
				if err != nil {
					return err
				}
				types = append(types, pt)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff([]PlaceholderType{PlaceholderTitle, PlaceholderBody}, types); diff != "" {
			t.Error(diff)
		}
	})
	t.Run("Run flushes commands left in the queue", func(t *testing.T) {
		p := NewPresentation()
		err := p.Run(ctx, func(ctx context.Context, b *Batch) error {
			b.AddSlide(7)
			b.AddSlide(11)
			if b.Pending() != 2 {
				t.Errorf("expected 2 pending commands, got %d", b.Pending())
			}
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		slides := p.Slides()
		if len(slides) != 2 {
			t.Fatalf("expected 2 slides, got %d", len(slides))
		}
		if slides[0].LayoutID != 7 || slides[1].LayoutID != 11 {
			t.Errorf("unexpected layouts: %d, %d", slides[0].LayoutID, slides[1].LayoutID)
		}
	})
	t.Run("Run discards queued commands when the function fails", func(t *testing.T) {
		p := NewPresentation()
		expected := errors.New("boom")
		err := p.Run(ctx, func(ctx context.Context, b *Batch) error {
			b.AddSlide(LayoutTitleAndContent)
			return expected
		})
		if !errors.Is(err, expected) {
			t.Fatalf("expected %v, got %v", expected, err)
		}
		if p.Len() != 0 {
			t.Errorf("expected no slides, got %d", p.Len())
		}
	})
	t.Run("an invalid layout fails the sync", func(t *testing.T) {
		p := NewPresentation()
		err := p.Run(ctx, func(ctx context.Context, b *Batch) error {
			b.AddSlide(99)
			return nil
		})
		var opErr *OperationError
		if !errors.As(err, &opErr) {
			t.Fatalf("expected *OperationError, got %v", err)
		}
		if !errors.Is(err, ErrInvalidLayout) {
			t.Errorf("expected ErrInvalidLayout, got %v", err)
		}
	})
	t.Run("commands before a failure stay applied and later ones are dropped", func(t *testing.T) {
		p := NewPresentation(WithMaxSlides(1))
		err := p.Run(ctx, func(ctx context.Context, b *Batch) error {
			first := b.AddSlide(LayoutTitleAndContent).LoadShapes()
			b.AddSlide(LayoutTitleAndContent)
			b.AddSlide(7)
			err := b.Sync(ctx)
			if _, itemsErr := first.Items(); itemsErr != nil {
				t.Errorf("expected first slide shapes to be loaded: %v", itemsErr)
			}
			if b.Pending() != 0 {
				t.Errorf("expected the queue to be empty, got %d", b.Pending())
			}
			return err
		})
		if !errors.Is(err, ErrSlideLimit) {
			t.Fatalf("expected ErrSlideLimit, got %v", err)
		}
		if p.Len() != 1 {
			t.Errorf("expected 1 slide, got %d", p.Len())
		}
	})
	t.Run("loading the placeholder format of a plain shape fails", func(t *testing.T) {
		p := NewPresentation(WithLayouts(Layout{
			ID:     1,
			Name:   "Caption",
			Shapes: []ShapeTemplate{{Name: "TextBox 1"}},
		}))
		err := p.Run(ctx, func(ctx context.Context, b *Batch) error {
			shapes := b.AddSlide(1).LoadShapes()
			if err := b.Sync(ctx); err != nil {
				return err
			}
			items, err := shapes.Items()
			if err != nil {
				return err
			}
			if items[0].IsPlaceholder() {
				t.Error("expected a plain shape")
			}
			items[0].LoadPlaceholderFormat()
			return nil
		})
		if !errors.Is(err, ErrNotPlaceholder) {
			t.Fatalf("expected ErrNotPlaceholder, got %v", err)
		}
	})
	t.Run("a cancelled context fails the sync without applying anything", func(t *testing.T) {
		p := NewPresentation()
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := p.Run(cctx, func(ctx context.Context, b *Batch) error {
			b.AddSlide(LayoutTitleAndContent)
			return nil
		})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if p.Len() != 0 {
			t.Errorf("expected no slides, got %d", p.Len())
		}
	})
}

func TestReplaceText(t *testing.T) {
	ctx := context.Background()
	p := NewPresentation()
	err := p.Run(ctx, func(ctx context.Context, b *Batch) error {
		shapes := b.AddSlide(1).LoadShapes()
		if err := b.Sync(ctx); err != nil {
			return err
		}
		items, err := shapes.Items()
		if err != nil {
			return err
		}
		items[0].ReplaceText("old")
		items[0].ReplaceText("Hello")
		items[1].ReplaceText("World")
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := p.Slides()[0]
	if title, _ := s.PlaceholderText(PlaceholderTitle); title != "Hello" {
		t.Errorf("expected title %q, got %q", "Hello", title)
	}
	if subtitle, _ := s.PlaceholderText(PlaceholderSubtitle); subtitle != "World" {
		t.Errorf("expected subtitle %q, got %q", "World", subtitle)
	}
	if _, ok := s.PlaceholderText(PlaceholderBody); ok {
		t.Error("expected no body placeholder on a title slide")
	}
}

var slideFileName = regexp.MustCompile(`^ppt/slides/slide\d+\.xml$`)

func TestWritePPTX(t *testing.T) {
	ctx := context.Background()
	p := NewPresentation()
	texts := [][2]string{
		{"Report", "Line1\nLine2"},
		{"Report (Part 2)", "Line3"},
	}
	err := p.Run(ctx, func(ctx context.Context, b *Batch) error {
		for _, text := range texts {
			shapes := b.AddSlide(LayoutTitleAndContent).LoadShapes()
			if err := b.Sync(ctx); err != nil {
				return err
			}
			items, err := shapes.Items()
			if err != nil {
				return err
			}
			items[0].ReplaceText(text[0])
			items[1].ReplaceText(text[1])
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	buf := new(bytes.Buffer)
	if err = p.WritePPTX(buf); err != nil {
		t.Fatalf("failed to write pptx: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("output is not a zip archive: %v", err)
	}
	var slideCount int
	var sb strings.Builder
	for _, f := range zr.File {
		if !slideFileName.MatchString(f.Name) {
			continue
		}
		slideCount++
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open %s: %v", f.Name, err)
		}
		_, err = io.Copy(&sb, rc)
		rc.Close()
		if err != nil {
			t.Fatalf("failed to read %s: %v", f.Name, err)
		}
	}
	if slideCount != 2 {
		t.Errorf("expected 2 slides in the archive, got %d", slideCount)
	}
	for _, expected := range []string{"Report (Part 2)", "Line1", "Line2", "Line3"} {
		if !strings.Contains(sb.String(), expected) {
			t.Errorf("expected slide XML to contain %q", expected)
		}
	}
}
