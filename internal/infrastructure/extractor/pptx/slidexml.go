package pptx

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// shape is a flattened DrawingML shape: either a text shape or a picture.
type shape struct {
	picture bool
	title   bool
	embedID string
	text    string
}

// parseShapes walks slide (or notes slide) XML and returns shapes in
// document order. Matching is by local element name, which keeps the walker
// independent of namespace prefixes. Text runs within a paragraph are
// concatenated; paragraphs and explicit breaks become newlines.
func parseShapes(r io.Reader) ([]shape, error) {
	dec := xml.NewDecoder(r)

	var shapes []shape
	var cur *shape
	var text strings.Builder
	inRun := false

	finalize := func() {
		if cur == nil {
			return
		}
		cur.text = strings.TrimSpace(text.String())
		shapes = append(shapes, *cur)
		cur = nil
		text.Reset()
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse slide xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "sp":
				finalize()
				cur = &shape{}
			case "pic":
				finalize()
				cur = &shape{picture: true}
			case "ph":
				if cur != nil && !cur.picture {
					for _, attr := range t.Attr {
						if attr.Name.Local == "type" && (attr.Value == "title" || attr.Value == "ctrTitle") {
							cur.title = true
						}
					}
				}
			case "blip":
				if cur != nil && cur.picture {
					for _, attr := range t.Attr {
						if attr.Name.Local == "embed" {
							cur.embedID = attr.Value
						}
					}
				}
			case "t":
				inRun = cur != nil
			case "br":
				if cur != nil {
					text.WriteByte('\n')
				}
			}
		case xml.CharData:
			if inRun {
				text.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inRun = false
			case "p":
				if cur != nil {
					text.WriteByte('\n')
				}
			case "sp", "pic":
				finalize()
			}
		}
	}
	finalize()
	return shapes, nil
}

// shapeTexts joins the non-empty text of every shape, one per line.
func shapeTexts(shapes []shape) string {
	var lines []string
	for _, s := range shapes {
		if !s.picture && s.text != "" {
			lines = append(lines, s.text)
		}
	}
	return strings.Join(lines, "\n")
}
