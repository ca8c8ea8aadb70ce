package timeline

import (
	"errors"
	"sort"
)

// ErrNoSpace is returned when a scene cannot be duplicated because its track
// has no room left after it.
var ErrNoSpace = errors.New("cannot duplicate this segment, no space left")

// ErrSceneNotFound is returned for operations on an unknown scene id.
var ErrSceneNotFound = errors.New("scene not found")

// SplitScene replaces a scene by its two halves around pivot, keeping the
// halves at the original position in the owning list.
func (p *Project) SplitScene(sceneID string, pivot float64) (left, right *Scene, ok bool) {
	s := p.scenes[sceneID]
	list := p.collectionOf(sceneID)
	if s == nil || list == nil {
		return nil, nil, false
	}
	left, right = s.Split(&p.Metadata, pivot, p.newID)

	i := indexOf(*list, sceneID)
	ids := make([]string, 0, len(*list)+1)
	ids = append(ids, (*list)[:i]...)
	ids = append(ids, left.ID, right.ID)
	ids = append(ids, (*list)[i+1:]...)
	*list = ids

	delete(p.scenes, sceneID)
	p.scenes[left.ID] = left
	p.scenes[right.ID] = right
	return left, right, true
}

// DuplicateScene places a copy of the scene in the first gap after it on the
// same track. The copy is as long as the original or as the gap, whichever
// is shorter, and never reaches past the project end.
func (p *Project) DuplicateScene(sceneID string) (*Scene, error) {
	s := p.scenes[sceneID]
	list := p.collectionOf(sceneID)
	if s == nil || list == nil {
		return nil, ErrSceneNotFound
	}

	others := p.peers(s)
	sort.SliceStable(others, func(i, j int) bool { return others[i].Offset < others[j].Offset })

	offset := s.Offset + s.width()
	finish := p.Metadata.Duration
	for _, o := range others {
		end := o.Offset + o.width()
		if end < offset {
			continue
		}
		if o.Offset > offset {
			finish = o.Offset
			break
		}
		offset = end
	}
	if e := offset + s.width(); e < finish {
		finish = e
	}
	if offset >= finish {
		return nil, ErrNoSpace
	}

	c := s.Clone(p.newID("scene"))
	patch := Patch{Offset: Float(offset)}
	if s.Kind == KindVideo {
		patch.Finish = Float(s.Start + (finish - offset))
	} else {
		patch.Start = Float(offset)
		patch.Finish = Float(finish)
	}
	c.SetMetadata(&p.Metadata, patch)

	p.scenes[c.ID] = c
	*list = append(*list, c.ID)
	return c, nil
}
