package timeline

import (
	"reflect"
	"testing"
)

func TestSnapshot_Restore(t *testing.T) {
	p := newTestProject(20)
	p.AddVideo("/a.mp4", 20, []Segment{{Start: 0, Finish: 2, Text: "hi"}}, 0)
	p.SetEditOperation(0, KindCrop)
	p.AddActiveEdit(0, 1, 3)
	p.AddIntent()
	p.SetTextCommand(1, "zoom on speaker")
	p.SetSuggestions(p.CurrentIntent().ID, KindZoom, []Patch{{}})
	p.AddTrack()
	p.MoveTrack(1, 0)
	p.SetCurrentIntent(0)

	snap := p.Snapshot()
	r := Restore(snap)

	if !reflect.DeepEqual(r.Snapshot(), snap) {
		t.Fatalf("restored snapshot differs:\n got %+v\nwant %+v", r.Snapshot(), snap)
	}
	if r.CurrentPos() != 0 || r.Intent(1).TextCommand != "zoom on speaker" {
		t.Fatalf("restored intents = %+v", r.Intents())
	}
	if len(r.SuggestedEdits(1)) != 1 || !r.SuggestedEdits(1)[0].Suggested {
		t.Fatal("suggestions not restored")
	}
	if got := r.TrackOrder(); !reflect.DeepEqual(got, []int{1, 0}) {
		t.Fatalf("track order = %v, want [1 0]", got)
	}

	// The snapshot is detached from the live project.
	p.UpdateScene(p.Videos()[0].ID, Patch{Offset: Float(5)})
	if snap.Videos[0].Offset != 0 {
		t.Fatal("snapshot shares scenes with the project")
	}
}

func TestRestore_Defaults(t *testing.T) {
	r := Restore(&Snapshot{
		Metadata:      ProjectMetadata{Duration: 5},
		CurrentIntent: 9,
		TrackOrder:    []int{0, 0, 3},
		Videos:        []*Scene{{ID: "v", TrackID: 2, Finish: 5}},
	})

	if len(r.Intents()) != 1 || r.CurrentPos() != 0 {
		t.Fatalf("intents = %d current %d", len(r.Intents()), r.CurrentPos())
	}
	if got := r.TrackOrder(); !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Fatalf("track order = %v, want [0 1 2]", got)
	}
	if r.Videos()[0].Kind != KindVideo {
		t.Fatalf("video kind = %q", r.Videos()[0].Kind)
	}
	if r := Restore(nil); len(r.Intents()) != 1 {
		t.Fatal("Restore(nil) should return a fresh project")
	}
}
