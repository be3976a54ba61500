package host

import (
	"fmt"
	"io"
	"strings"

	ppt "github.com/VantageDataChat/GoPPT"
)

// 16:9 slide geometry in EMU.
const (
	emuPerInch = 914400

	marginLeft   = int64(0.4 * emuPerInch)
	contentWidth = int64(9.2 * emuPerInch)

	fontTitle    = 32
	fontSubtitle = 20
	fontBody     = 20
	fontOther    = 12
)

type frame struct {
	y, height int64
}

var placeholderFrames = map[PlaceholderType]frame{
	PlaceholderTitle:    {y: int64(0.3 * emuPerInch), height: int64(0.9 * emuPerInch)},
	PlaceholderSubtitle: {y: int64(1.4 * emuPerInch), height: int64(1.0 * emuPerInch)},
	PlaceholderBody:     {y: int64(1.4 * emuPerInch), height: int64(3.9 * emuPerInch)},
}

var otherFrame = frame{y: int64(5.0 * emuPerInch), height: int64(0.4 * emuPerInch)}

// WritePPTX saves the presentation as a PowerPoint 2007 file. Shapes without
// text are not rendered, the same as an unfilled placeholder in a slide show.
func (p *Presentation) WritePPTX(w io.Writer) error {
	slides := p.Slides()

	doc := ppt.New()
	doc.GetDocumentProperties().Creator = "lyricslides"
	if len(slides) > 0 {
		if title, ok := slides[0].PlaceholderText(PlaceholderTitle); ok {
			doc.GetDocumentProperties().Title = title
		}
	}

	for i, s := range slides {
		var ps *ppt.Slide
		if i == 0 {
			ps = doc.GetActiveSlide()
		} else {
			ps = doc.CreateSlide()
		}
		renderSlide(ps, s)
	}

	pw, err := ppt.NewWriter(doc, ppt.WriterPowerPoint2007)
	if err != nil {
		return fmt.Errorf("failed to create pptx writer: %w", err)
	}
	if err = pw.(*ppt.PPTXWriter).WriteTo(w); err != nil {
		return fmt.Errorf("failed to write pptx: %w", err)
	}
	return nil
}

func renderSlide(ps *ppt.Slide, s Slide) {
	for _, shape := range s.Shapes {
		if shape.Text == "" {
			continue
		}
		f, ok := placeholderFrames[shape.Placeholder]
		if !ok {
			f = otherFrame
		}
		rts := ps.CreateRichTextShape()
		rts.SetOffsetX(marginLeft).SetOffsetY(f.y)
		rts.SetWidth(contentWidth).SetHeight(f.height)
		for i, line := range strings.Split(shape.Text, "\n") {
			if i > 0 {
				rts.CreateParagraph()
			}
			if strings.TrimSpace(line) == "" {
				line = " "
			}
			tr := rts.CreateTextRun(line)
			switch shape.Placeholder {
			case PlaceholderTitle:
				tr.GetFont().SetSize(fontTitle).SetBold(true)
			case PlaceholderSubtitle:
				tr.GetFont().SetSize(fontSubtitle)
			case PlaceholderBody:
				tr.GetFont().SetSize(fontBody)
			default:
				tr.GetFont().SetSize(fontOther)
			}
		}
	}
}
