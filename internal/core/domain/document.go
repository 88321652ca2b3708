package domain

// KnowledgeDoc is the structured extraction result for one presentation:
// slides in original order, each with text, notes, and embedded images.
type KnowledgeDoc struct {
	SourceFilename string      `json:"source_filename"`
	SlideCount     int         `json:"slide_count"`
	Slides         []Slide     `json:"slides"`
	Summary        *DocSummary `json:"summary,omitempty"`
}

type Slide struct {
	Index     int          `json:"slide_index"`
	Title     string       `json:"title,omitempty"`
	TextItems []string     `json:"text_items"`
	Notes     string       `json:"notes,omitempty"`
	Images    []SlideImage `json:"images"`
}

type SlideImage struct {
	ID         string `json:"image_id"`
	Filename   string `json:"filename"`
	SlideIndex int    `json:"slide_index"`
	OCRText    string `json:"ocr_text,omitempty"`
}

// DocSummary holds the heuristic summary derived from all extracted text.
type DocSummary struct {
	ExecutiveSummary string   `json:"executive_summary"`
	KeyPoints        []string `json:"key_points"`
}

// Clone returns a deep copy. The job store hands out clones so no caller
// ever aliases a stored document.
func (d *KnowledgeDoc) Clone() *KnowledgeDoc {
	if d == nil {
		return nil
	}
	out := *d
	out.Slides = CloneSlides(d.Slides)
	if d.Summary != nil {
		summary := *d.Summary
		summary.KeyPoints = append([]string(nil), d.Summary.KeyPoints...)
		out.Summary = &summary
	}
	return &out
}

func CloneSlides(slides []Slide) []Slide {
	if slides == nil {
		return nil
	}
	out := make([]Slide, len(slides))
	for i, s := range slides {
		cloned := s
		if s.TextItems != nil {
			cloned.TextItems = append([]string{}, s.TextItems...)
		}
		if s.Images != nil {
			cloned.Images = append([]SlideImage{}, s.Images...)
		}
		out[i] = cloned
	}
	return out
}
