package timeline

import "sort"

const (
	// PauseText marks a silent stretch in a merged transcript.
	PauseText = "[PAUSE]"

	// PauseThreshold is the smallest gap in seconds between two transcript
	// lines that is reported as a pause.
	PauseThreshold = 3.0
)

// AdjustedTranscript returns the transcript lines of a video that fall
// inside its trim window, clipped to it and shifted to timeline time.
func AdjustedTranscript(v *Scene) []Segment {
	shift := v.Offset - v.Start
	var out []Segment
	for _, seg := range v.Transcript {
		if seg.Finish <= v.Start || seg.Start >= v.Finish {
			continue
		}
		start, finish := seg.Start, seg.Finish
		if start < v.Start {
			start = v.Start
		}
		if finish > v.Finish {
			finish = v.Finish
		}
		out = append(out, Segment{
			Start:  start + shift,
			Finish: finish + shift,
			Text:   seg.Text,
		})
	}
	return out
}

// MergeTranscripts flattens the timeline-time transcripts of several videos
// into one list ordered by start and fills silent stretches with PauseText
// lines.
//
// A leading pause covers any gap before the first line. Gaps between lines
// become pauses only when longer than PauseThreshold and when the previous
// line does not already end at duration. A trailing pause runs up to
// duration. An empty input yields a single pause over [0, duration].
func MergeTranscripts(sources [][]Segment, duration float64) []Segment {
	var all []Segment
	for _, src := range sources {
		all = append(all, src...)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Start < all[j].Start })

	if len(all) == 0 {
		return []Segment{{Start: 0, Finish: duration, Text: PauseText}}
	}

	out := make([]Segment, 0, len(all)*2+1)
	if all[0].Start > 0 {
		out = append(out, Segment{Start: 0, Finish: all[0].Start, Text: PauseText})
	}
	for i, seg := range all {
		if i > 0 {
			prevEnd := out[len(out)-1].Finish
			if needPause(prevEnd, seg.Start, duration) {
				out = append(out, Segment{Start: prevEnd, Finish: seg.Start, Text: PauseText})
			}
		}
		out = append(out, seg)
	}
	if last := out[len(out)-1].Finish; last < duration {
		out = append(out, Segment{Start: last, Finish: duration, Text: PauseText})
	}
	return out
}

func needPause(prevEnd, nextStart, duration float64) bool {
	if prevEnd == nextStart || prevEnd == duration {
		return false
	}
	return nextStart-prevEnd > PauseThreshold
}

// Transcript returns the merged transcript of every video in the project.
func (p *Project) Transcript() []Segment {
	var sources [][]Segment
	for _, v := range p.Videos() {
		sources = append(sources, AdjustedTranscript(v))
	}
	return MergeTranscripts(sources, p.Metadata.Duration)
}

// TranscriptIndexAt returns the index of the line playing at t: the last line
// starting at or before t. It returns -1 when t precedes every line.
func TranscriptIndexAt(segments []Segment, t float64) int {
	i := sort.Search(len(segments), func(i int) bool { return segments[i].Start > t })
	return i - 1
}
