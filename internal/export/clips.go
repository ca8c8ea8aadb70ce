package export

import (
	"path/filepath"
	"sort"

	"github.com/heimdex/heimdex-editor/internal/timeline"
)

type interval struct {
	from, to float64
}

// Clips lays the videos of snap out as EDL clips. Cut regions committed in
// any intent are removed from the program and the material after each cut
// moves up to close the gap. Suggested cuts are ignored.
func Clips(snap *timeline.Snapshot) []Clip {
	cuts := mergeIntervals(cutIntervals(snap))
	trackRank := map[int]int{}
	for i, id := range snap.TrackOrder {
		trackRank[id] = i
	}

	var out []Clip
	for _, v := range snap.Videos {
		if v.End() <= v.Offset {
			continue
		}
		name := SanitizeName(filepath.Base(v.Source), 160)
		if name == "" {
			name = v.ID
		}
		for _, piece := range subtract(interval{v.Offset, v.End()}, cuts) {
			out = append(out, Clip{
				ClipName:   name,
				MediaPath:  v.Source,
				SceneID:    v.ID,
				TrackID:    v.TrackID,
				Layer:      trackRank[v.TrackID],
				StartMs:    secToMs(v.OffsetToNative(piece.from)),
				EndMs:      secToMs(v.OffsetToNative(piece.to)),
				RecordInMs: secToMs(piece.from - removedBefore(cuts, piece.from)),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RecordInMs != out[j].RecordInMs {
			return out[i].RecordInMs < out[j].RecordInMs
		}
		return out[i].Layer < out[j].Layer
	})
	return out
}

func cutIntervals(snap *timeline.Snapshot) []interval {
	var out []interval
	for _, in := range snap.Intents {
		for _, s := range in.Active {
			if s.Kind == timeline.KindCut && s.End() > s.Offset {
				out = append(out, interval{s.Offset, s.End()})
			}
		}
	}
	return out
}

func mergeIntervals(ivs []interval) []interval {
	sort.Slice(ivs, func(i, j int) bool { return ivs[i].from < ivs[j].from })
	var out []interval
	for _, iv := range ivs {
		if n := len(out); n > 0 && iv.from <= out[n-1].to {
			if iv.to > out[n-1].to {
				out[n-1].to = iv.to
			}
			continue
		}
		out = append(out, iv)
	}
	return out
}

// subtract returns the parts of iv not covered by cuts, which must be merged
// and sorted.
func subtract(iv interval, cuts []interval) []interval {
	var out []interval
	cur := iv.from
	for _, c := range cuts {
		if c.to <= cur {
			continue
		}
		if c.from >= iv.to {
			break
		}
		if c.from > cur {
			out = append(out, interval{cur, c.from})
		}
		cur = c.to
		if cur >= iv.to {
			return out
		}
	}
	if cur < iv.to {
		out = append(out, interval{cur, iv.to})
	}
	return out
}

// removedBefore is the total cut length before t.
func removedBefore(cuts []interval, t float64) float64 {
	total := 0.0
	for _, c := range cuts {
		if c.from >= t {
			break
		}
		end := c.to
		if end > t {
			end = t
		}
		total += end - c.from
	}
	return total
}
