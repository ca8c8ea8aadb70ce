package timeline

// Direction selects which neighbouring edit Navigate moves to.
type Direction string

const (
	Prev Direction = "prev"
	Next Direction = "next"
)

// Navigate returns the current intent's edit nearest to playPosition in the
// given direction. Suggestions take precedence over committed edits when the
// intent has any. Without a selection an edit starting exactly at
// playPosition is returned first.
func (p *Project) Navigate(dir Direction, playPosition float64, hasSelection bool) *Scene {
	edits := p.SuggestedEdits(p.cur)
	if len(edits) == 0 {
		edits = p.ActiveEdits(p.cur)
	}
	if len(edits) == 0 {
		return nil
	}

	if !hasSelection {
		for _, s := range edits {
			if s.Offset == playPosition {
				return s
			}
		}
	}

	var found *Scene
	switch dir {
	case Prev:
		best := 0.0
		for _, s := range edits {
			if s.Offset < playPosition && s.Offset >= best {
				best = s.Offset
				found = s
			}
		}
	case Next:
		best := p.Metadata.Duration
		for _, s := range edits {
			if s.Offset > playPosition && s.Offset <= best {
				best = s.Offset
				found = s
			}
		}
	}
	return found
}
