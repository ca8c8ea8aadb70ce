package timeline

import "testing"

func TestNewProject_Defaults(t *testing.T) {
	p := NewProject(DefaultMetadata())

	if len(p.Intents()) != 1 {
		t.Fatalf("intents = %d, want 1", len(p.Intents()))
	}
	if p.CurrentPos() != 0 || p.CurrentIntent().Idx != 1 {
		t.Fatalf("current = %d idx %d", p.CurrentPos(), p.CurrentIntent().Idx)
	}
	if p.Metadata.FPS != 25 || p.Metadata.Width != 854 || p.Metadata.Height != 480 || p.Metadata.Duration != 10 {
		t.Fatalf("metadata = %+v", p.Metadata)
	}
	if got := p.TrackOrder(); len(got) != 1 || got[0] != 0 {
		t.Fatalf("track order = %v", got)
	}
}

func TestProject_AddActiveEdit(t *testing.T) {
	p := newTestProject(20)
	p.SetEditOperation(0, KindText)

	s := p.AddActiveEdit(0, 5, 2)
	if s == nil {
		t.Fatal("AddActiveEdit() = nil")
	}
	if s.Start != 2 || s.Finish != 5 || s.Offset != 2 {
		t.Fatalf("edit = [start %v finish %v offset %v], want [2 5 2]", s.Start, s.Finish, s.Offset)
	}
	if s.Duration != 20 || s.Z != 1 || s.Kind != KindText {
		t.Fatalf("edit = duration %v z %v kind %q", s.Duration, s.Z, s.Kind)
	}
	if s.IntentID != p.CurrentIntent().ID {
		t.Fatalf("edit owner = %q", s.IntentID)
	}

	p.AddActiveEdit(0, 18, 25)
	if p.Metadata.Duration != 25 {
		t.Fatalf("duration = %v, want 25", p.Metadata.Duration)
	}

	if p.AddActiveEdit(7, 0, 1) != nil {
		t.Fatal("AddActiveEdit() on missing intent should be nil")
	}
}

func TestProject_DeleteEdits(t *testing.T) {
	p := newTestProject(20)
	a := p.AddActiveEdit(0, 0, 1)
	b := p.AddActiveEdit(0, 2, 3)

	if n := p.DeleteEdits(0, []string{a.ID, "missing"}); n != 1 {
		t.Fatalf("DeleteEdits() = %d, want 1", n)
	}
	edits := p.ActiveEdits(0)
	if len(edits) != 1 || edits[0].ID != b.ID {
		t.Fatalf("remaining edits = %v", edits)
	}
	if p.Scene(a.ID) != nil {
		t.Fatal("deleted scene still reachable")
	}
}

func TestProject_DeleteIntentRenumbers(t *testing.T) {
	p := newTestProject(20)
	p.AddActiveEdit(0, 0, 1)
	p.AddIntent()
	p.AddActiveEdit(1, 0, 1)
	p.AddIntent()
	p.AddActiveEdit(2, 0, 1)

	if !p.DeleteIntent(0) {
		t.Fatal("DeleteIntent(0) = false")
	}
	if len(p.Intents()) != 2 {
		t.Fatalf("intents = %d, want 2", len(p.Intents()))
	}
	for pos := range p.Intents() {
		for _, s := range p.ActiveEdits(pos) {
			if s.Z != float64(pos+1) {
				t.Fatalf("intent %d edit z = %v, want %d", pos, s.Z, pos+1)
			}
		}
	}
	if p.CurrentPos() != 1 {
		t.Fatalf("current = %d, want 1", p.CurrentPos())
	}
}

func TestProject_DeleteLastIntentLeavesFreshOne(t *testing.T) {
	p := newTestProject(20)
	p.AddActiveEdit(0, 0, 1)
	old := p.CurrentIntent().ID

	p.DeleteIntent(0)

	if len(p.Intents()) != 1 {
		t.Fatalf("intents = %d, want 1", len(p.Intents()))
	}
	if p.CurrentIntent().ID == old || len(p.ActiveEdits(0)) != 0 {
		t.Fatal("expected a fresh empty intent")
	}
}

func TestProject_OutOfRangeIsNoop(t *testing.T) {
	p := newTestProject(20)

	if p.DeleteIntent(3) || p.SetCurrentIntent(-1) || p.CopyIntentToCurrent(5) || p.BranchIntent(2) != -1 {
		t.Fatal("out-of-range intent operation reported success")
	}
	if p.AcceptSuggestion(4, "x") != nil || p.RejectSuggestion(4, "x") {
		t.Fatal("out-of-range suggestion operation reported success")
	}
	if len(p.Intents()) != 1 {
		t.Fatalf("intents = %d, want 1", len(p.Intents()))
	}
}

func TestProject_BranchIntentIsDeep(t *testing.T) {
	p := newTestProject(20)
	p.SetEditOperation(0, KindBlur)
	p.SetTextCommand(0, "blur faces")
	orig := p.AddActiveEdit(0, 1, 4)

	pos := p.BranchIntent(0)
	if pos != 1 || p.CurrentPos() != 1 {
		t.Fatalf("BranchIntent() = %d, current %d", pos, p.CurrentPos())
	}
	branch := p.Intent(pos)
	if branch.ID == p.Intent(0).ID || branch.TextCommand != "blur faces" || branch.EditOperation != KindBlur {
		t.Fatalf("branch = %+v", branch)
	}
	copies := p.ActiveEdits(pos)
	if len(copies) != 1 || copies[0].ID == orig.ID {
		t.Fatalf("branch edits = %v", copies)
	}

	p.UpdateScene(copies[0].ID, Patch{Offset: Float(9)})
	if orig.Offset != 1 {
		t.Fatalf("original moved with its copy: offset %v", orig.Offset)
	}
	if copies[0].Z != 2 {
		t.Fatalf("copy z = %v, want 2", copies[0].Z)
	}
}

func TestProject_CopyIntentToCurrent(t *testing.T) {
	p := newTestProject(20)
	p.SetEditOperation(0, KindCut)
	p.AddActiveEdit(0, 1, 2)
	p.AddIntent()
	stale := p.AddActiveEdit(1, 5, 6)
	idx := p.CurrentIntent().Idx

	if !p.CopyIntentToCurrent(0) {
		t.Fatal("CopyIntentToCurrent() = false")
	}
	cur := p.CurrentIntent()
	if cur.Idx != idx || cur.EditOperation != KindCut {
		t.Fatalf("current = %+v", cur)
	}
	edits := p.ActiveEdits(1)
	if len(edits) != 1 || edits[0].Start != 1 || edits[0].Z != 2 {
		t.Fatalf("copied edits = %+v", edits)
	}
	if p.Scene(stale.ID) != nil {
		t.Fatal("replaced intent's edits still reachable")
	}
}

func TestProject_SetEditOperation(t *testing.T) {
	p := newTestProject(20)
	s := p.AddActiveEdit(0, 0, 1)

	if !p.SetEditOperation(0, KindZoom) {
		t.Fatal("SetEditOperation(zoom) = false")
	}
	if s.Kind != KindZoom {
		t.Fatalf("kind = %q, want zoom", s.Kind)
	}
	if p.SetEditOperation(0, "sparkle") || p.SetEditOperation(0, KindVideo) {
		t.Fatal("SetEditOperation accepted a non-edit kind")
	}
	if p.CurrentIntent().EditOperation != KindZoom {
		t.Fatal("rejected kind changed the operation")
	}
}

func TestProject_AcceptSuggestion(t *testing.T) {
	p := newTestProject(20)
	in := p.CurrentIntent()
	tmpl := Patch{Start: Float(2), Finish: Float(4), Offset: Float(2)}
	sugg := p.SetSuggestions(in.ID, KindText, []Patch{tmpl, tmpl})
	if len(sugg) != 2 || !sugg[0].Suggested || sugg[0].Z != 1 {
		t.Fatalf("suggestions = %+v", sugg)
	}
	if in.SuggestedEditOperation != KindText {
		t.Fatalf("suggested operation = %q", in.SuggestedEditOperation)
	}

	accepted := p.AcceptSuggestion(0, sugg[0].ID)
	if accepted == nil {
		t.Fatal("AcceptSuggestion() = nil")
	}
	if accepted.ID == sugg[0].ID || accepted.Suggested || accepted.Start != 2 {
		t.Fatalf("accepted = %+v", accepted)
	}
	if len(p.ActiveEdits(0)) != 1 || len(p.SuggestedEdits(0)) != 1 {
		t.Fatalf("active %d suggested %d, want 1 and 1", len(p.ActiveEdits(0)), len(p.SuggestedEdits(0)))
	}

	if !p.RejectSuggestion(0, sugg[1].ID) {
		t.Fatal("RejectSuggestion() = false")
	}
	if len(p.SuggestedEdits(0)) != 0 || len(p.ActiveEdits(0)) != 1 {
		t.Fatal("reject touched the wrong list")
	}
	if p.RejectSuggestion(0, sugg[1].ID) {
		t.Fatal("second reject should fail")
	}
}

func TestProject_SetSketch(t *testing.T) {
	p := newTestProject(20)
	p.SetSketch(0, []map[string]any{{"type": "rect"}}, 4)

	in := p.CurrentIntent()
	p.SetTextCommand(0, "circle the logo")
	if !in.RequestParameters.HasText {
		t.Fatal("text command did not set hasText")
	}
	if !in.RequestParameters.HasSketch || in.SketchPlayPosition != 4 {
		t.Fatalf("intent = %+v", in)
	}
	p.SetSketch(0, nil, -1)
	if in.RequestParameters.HasSketch || in.SketchCommand != nil {
		t.Fatalf("sketch not cleared: %+v", in)
	}
}

func TestProject_AddVideoCreatesTracks(t *testing.T) {
	p := newTestProject(10)
	v := p.AddVideo("/media/a.mp4", 42, nil, 2)

	if v.Finish != 42 || v.Processing {
		t.Fatalf("video = %+v", v)
	}
	if p.Metadata.Duration != 42 {
		t.Fatalf("duration = %v, want 42", p.Metadata.Duration)
	}
	if p.Metadata.TrackCount != 3 || len(p.TrackOrder()) != 3 {
		t.Fatalf("tracks = %d %v", p.Metadata.TrackCount, p.TrackOrder())
	}
	if !p.RemoveScene(v.ID) || len(p.Videos()) != 0 {
		t.Fatal("RemoveScene() did not remove the video")
	}
}
