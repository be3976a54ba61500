// Package host is an in-process presentation object model.
//
// Reads and writes are queued on a Batch and only take effect when the batch
// is synced, so callers must Sync before inspecting anything they loaded.
package host

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

type PlaceholderType string

const (
	PlaceholderTitle    PlaceholderType = "Title"
	PlaceholderSubtitle PlaceholderType = "Subtitle"
	PlaceholderBody     PlaceholderType = "Body"
)

// LayoutTitleAndContent is the id of the "Title and Content" layout.
const LayoutTitleAndContent = 12

type ShapeTemplate struct {
	Name string
	// Placeholder is empty for shapes that are not placeholders.
	Placeholder PlaceholderType
}

type Layout struct {
	ID     int
	Name   string
	Shapes []ShapeTemplate
}

var DefaultLayouts = []Layout{
	{
		ID:   1,
		Name: "Title Slide",
		Shapes: []ShapeTemplate{
			{Name: "Title 1", Placeholder: PlaceholderTitle},
			{Name: "Subtitle 2", Placeholder: PlaceholderSubtitle},
		},
	},
	{
		ID:   7,
		Name: "Blank",
	},
	{
		ID:   11,
		Name: "Title Only",
		Shapes: []ShapeTemplate{
			{Name: "Title 1", Placeholder: PlaceholderTitle},
		},
	},
	{
		ID:   LayoutTitleAndContent,
		Name: "Title and Content",
		Shapes: []ShapeTemplate{
			{Name: "Title 1", Placeholder: PlaceholderTitle},
			{Name: "Content Placeholder 2", Placeholder: PlaceholderBody},
		},
	},
}

var (
	ErrNotLoaded      = errors.New("host: property not loaded, call Sync first")
	ErrNotResolved    = errors.New("host: object was never created")
	ErrInvalidLayout  = errors.New("host: invalid layout id")
	ErrSlideLimit     = errors.New("host: slide limit reached")
	ErrNotPlaceholder = errors.New("host: shape is not a placeholder")
)

// OperationError is returned by Sync when the host rejects a queued command.
// Commands before the failing one have already been applied.
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("host: %s failed: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

type Shape struct {
	ID          string
	Name        string
	Placeholder PlaceholderType
	Text        string
}

type Slide struct {
	ID       string
	LayoutID int
	Shapes   []Shape
}

// PlaceholderText returns the text of the first placeholder of type t.
func (s Slide) PlaceholderText(t PlaceholderType) (text string, ok bool) {
	for _, shape := range s.Shapes {
		if shape.Placeholder == t {
			return shape.Text, true
		}
	}
	return "", false
}

type shape struct {
	id          string
	name        string
	placeholder PlaceholderType
	text        string
}

type slide struct {
	id       string
	layoutID int
	shapes   []*shape
}

type Option func(p *Presentation)

// WithLayouts replaces the layout catalog.
func WithLayouts(layouts ...Layout) Option {
	return func(p *Presentation) {
		p.layouts = make(map[int]Layout, len(layouts))
		for _, l := range layouts {
			p.layouts[l.ID] = l
		}
	}
}

// WithMaxSlides limits the number of slides the document can hold. Zero means no limit.
func WithMaxSlides(n int) Option {
	return func(p *Presentation) {
		p.maxSlides = n
	}
}

func NewPresentation(opts ...Option) *Presentation {
	p := &Presentation{}
	WithLayouts(DefaultLayouts...)(p)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Presentation is the live document. It is safe for concurrent reads while a
// batch is being synced.
type Presentation struct {
	m         sync.Mutex
	layouts   map[int]Layout
	maxSlides int
	slides    []*slide
}

func (p *Presentation) Len() int {
	p.m.Lock()
	defer p.m.Unlock()
	return len(p.slides)
}

// Slides returns a copy of the slides in document order.
func (p *Presentation) Slides() []Slide {
	p.m.Lock()
	defer p.m.Unlock()
	slides := make([]Slide, len(p.slides))
	for i, s := range p.slides {
		slides[i] = Slide{
			ID:       s.id,
			LayoutID: s.layoutID,
			Shapes:   make([]Shape, len(s.shapes)),
		}
		for j, sh := range s.shapes {
			slides[i].Shapes[j] = Shape{
				ID:          sh.id,
				Name:        sh.name,
				Placeholder: sh.placeholder,
				Text:        sh.text,
			}
		}
	}
	return slides
}

// Run calls f with a new batch, then syncs anything f left queued.
// If f returns an error, the remaining queued commands are discarded.
func (p *Presentation) Run(ctx context.Context, f func(ctx context.Context, b *Batch) error) (err error) {
	b := &Batch{p: p}
	if err = f(ctx, b); err != nil {
		return err
	}
	return b.Sync(ctx)
}

// addSlide must be called with p.m held.
func (p *Presentation) addSlide(layoutID int) (*slide, error) {
	layout, ok := p.layouts[layoutID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLayout, layoutID)
	}
	if p.maxSlides > 0 && len(p.slides) >= p.maxSlides {
		return nil, fmt.Errorf("%w: %d", ErrSlideLimit, p.maxSlides)
	}
	s := &slide{
		id:       uuid.NewString(),
		layoutID: layout.ID,
		shapes:   make([]*shape, len(layout.Shapes)),
	}
	for i, st := range layout.Shapes {
		s.shapes[i] = &shape{
			id:          uuid.NewString(),
			name:        st.Name,
			placeholder: st.Placeholder,
		}
	}
	p.slides = append(p.slides, s)
	return s, nil
}
