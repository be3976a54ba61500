package host

import (
	"context"
	"fmt"
)

type command struct {
	op    string
	apply func(p *Presentation) error
}

// Batch queues commands against a Presentation. Nothing is read or written
// until Sync is called.
type Batch struct {
	p     *Presentation
	queue []command
}

func (b *Batch) enqueue(op string, apply func(p *Presentation) error) {
	b.queue = append(b.queue, command{op: op, apply: apply})
}

// Pending returns the number of queued commands.
func (b *Batch) Pending() int {
	return len(b.queue)
}

// Sync applies the queued commands in order. It stops at the first command the
// host rejects and returns an *OperationError; the commands before it stay
// applied and the commands after it are dropped.
func (b *Batch) Sync(ctx context.Context) error {
	queue := b.queue
	b.queue = nil
	if err := ctx.Err(); err != nil {
		return &OperationError{Op: "sync", Err: err}
	}
	b.p.m.Lock()
	defer b.p.m.Unlock()
	for _, cmd := range queue {
		if err := cmd.apply(b.p); err != nil {
			return &OperationError{Op: cmd.op, Err: err}
		}
	}
	return nil
}

// AddSlide queues a new slide at the end of the presentation.
func (b *Batch) AddSlide(layoutID int) *SlideProxy {
	sp := &SlideProxy{b: b}
	b.enqueue(fmt.Sprintf("add slide with layout %d", layoutID), func(p *Presentation) (err error) {
		sp.s, err = p.addSlide(layoutID)
		return err
	})
	return sp
}

type SlideProxy struct {
	b *Batch
	s *slide
}

// ID is available once the batch that added the slide has been synced.
func (sp *SlideProxy) ID() (string, error) {
	if sp.s == nil {
		return "", ErrNotLoaded
	}
	return sp.s.id, nil
}

// LoadShapes queues a read of the slide's shapes.
func (sp *SlideProxy) LoadShapes() *ShapeCollection {
	sc := &ShapeCollection{}
	sp.b.enqueue("load shapes", func(p *Presentation) error {
		if sp.s == nil {
			return ErrNotResolved
		}
		sc.items = make([]*ShapeProxy, len(sp.s.shapes))
		for i, s := range sp.s.shapes {
			sc.items[i] = &ShapeProxy{b: sp.b, s: s}
		}
		sc.loaded = true
		return nil
	})
	return sc
}

type ShapeCollection struct {
	items  []*ShapeProxy
	loaded bool
}

func (sc *ShapeCollection) Items() ([]*ShapeProxy, error) {
	if !sc.loaded {
		return nil, ErrNotLoaded
	}
	return sc.items, nil
}

// ShapeProxy is only handed out by a loaded ShapeCollection, so its id, name
// and placeholder flag can be read without another sync.
type ShapeProxy struct {
	b *Batch
	s *shape
}

func (sh *ShapeProxy) ID() string {
	return sh.s.id
}

func (sh *ShapeProxy) Name() string {
	return sh.s.name
}

func (sh *ShapeProxy) IsPlaceholder() bool {
	return sh.s.placeholder != ""
}

// LoadPlaceholderFormat queues a read of the placeholder type. The sync fails
// with ErrNotPlaceholder if the shape is not a placeholder.
func (sh *ShapeProxy) LoadPlaceholderFormat() *PlaceholderFormat {
	pf := &PlaceholderFormat{}
	sh.b.enqueue(fmt.Sprintf("load placeholder format of %q", sh.s.name), func(p *Presentation) error {
		if sh.s.placeholder == "" {
			return ErrNotPlaceholder
		}
		pf.t = sh.s.placeholder
		pf.loaded = true
		return nil
	})
	return pf
}

// ReplaceText queues replacing the whole text of the shape.
func (sh *ShapeProxy) ReplaceText(text string) {
	sh.b.enqueue(fmt.Sprintf("replace text of %q", sh.s.name), func(p *Presentation) error {
		sh.s.text = text
		return nil
	})
}

type PlaceholderFormat struct {
	t      PlaceholderType
	loaded bool
}

func (pf *PlaceholderFormat) Type() (PlaceholderType, error) {
	if !pf.loaded {
		return "", ErrNotLoaded
	}
	return pf.t, nil
}
