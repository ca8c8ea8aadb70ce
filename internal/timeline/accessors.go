package timeline

import "sort"

// Categories lists the edit kinds in stacking order.
var Categories = []Kind{KindText, KindImage, KindShape, KindCut, KindCrop, KindZoom, KindBlur}

// Objects returns the committed edits of every intent whose operation is k,
// followed by the current intent's suggestions when its operation is k and
// suggestions are shown.
func (p *Project) Objects(k Kind) []*Scene {
	if k == KindNone {
		return nil
	}
	var out []*Scene
	for _, in := range p.Intents() {
		if in.EditOperation == k {
			out = append(out, p.lookup(in.active)...)
		}
	}
	if cur := p.CurrentIntent(); p.ShowSuggestions && cur != nil && cur.EditOperation == k {
		out = append(out, p.lookup(cur.suggested)...)
	}
	return out
}

func (p *Project) Texts() []*Scene  { return p.Objects(KindText) }
func (p *Project) Images() []*Scene { return p.Objects(KindImage) }
func (p *Project) Shapes() []*Scene { return p.Objects(KindShape) }
func (p *Project) Crops() []*Scene  { return p.Objects(KindCrop) }
func (p *Project) Zooms() []*Scene  { return p.Objects(KindZoom) }
func (p *Project) Blurs() []*Scene  { return p.Objects(KindBlur) }

// SkippedParts returns the committed cuts of every intent except the current
// one.
func (p *Project) SkippedParts() []*Scene {
	var out []*Scene
	for i, in := range p.Intents() {
		if i == p.cur {
			continue
		}
		if in.EditOperation == KindCut {
			out = append(out, p.lookup(in.active)...)
		}
	}
	return out
}

// AllSkippedParts returns every cut, the current intent's included.
func (p *Project) AllSkippedParts() []*Scene {
	return p.Objects(KindCut)
}

// OrderedAllObjects returns the edits of every other intent sorted by z,
// followed by the current intent's edits when it has an operation selected.
// The current intent's suggestions come last when suggestions are shown.
func (p *Project) OrderedAllObjects() []*Scene {
	cur := p.CurrentIntent()
	var out []*Scene
	for _, k := range Categories {
		for _, s := range p.Objects(k) {
			if cur != nil && s.IntentID == cur.ID {
				continue
			}
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Z < out[j].Z })

	if cur == nil || cur.EditOperation == KindNone {
		return out
	}
	out = append(out, p.lookup(cur.active)...)
	if p.ShowSuggestions {
		out = append(out, p.lookup(cur.suggested)...)
	}
	return out
}
