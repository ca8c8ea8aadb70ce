package timeline

import (
	"errors"
	"testing"
)

func TestSplitScene_ReplacesInPlace(t *testing.T) {
	p := newTestProject(30)
	a := p.AddActiveEdit(0, 0, 4)
	b := p.AddActiveEdit(0, 10, 20)
	c := p.AddActiveEdit(0, 25, 28)

	left, right, ok := p.SplitScene(b.ID, 15)
	if !ok {
		t.Fatal("SplitScene() ok = false")
	}
	edits := p.ActiveEdits(0)
	ids := []string{edits[0].ID, edits[1].ID, edits[2].ID, edits[3].ID}
	want := []string{a.ID, left.ID, right.ID, c.ID}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("edit order = %v, want %v", ids, want)
		}
	}
	if p.Scene(b.ID) != nil {
		t.Fatal("split scene still reachable")
	}
	if left.End() != 15 || right.Offset != 15 || right.End() != 20 {
		t.Fatalf("halves = [%v,%v) [%v,%v)", left.Offset, left.End(), right.Offset, right.End())
	}
}

func TestSplitScene_Video(t *testing.T) {
	p := newTestProject(10)
	v := p.AddVideo("/a.mp4", 20, nil, 0)

	left, right, ok := p.SplitScene(v.ID, 8)
	if !ok {
		t.Fatal("SplitScene() ok = false")
	}
	videos := p.Videos()
	if len(videos) != 2 || videos[0].ID != left.ID || videos[1].ID != right.ID {
		t.Fatalf("videos = %v", videos)
	}
	if right.Start != 8 || right.Source != "/a.mp4" {
		t.Fatalf("right half = %+v", right)
	}
}

func TestSplitScene_Unknown(t *testing.T) {
	p := newTestProject(10)
	if _, _, ok := p.SplitScene("nope", 2); ok {
		t.Fatal("SplitScene() on unknown id ok = true")
	}
}

func TestDuplicateScene(t *testing.T) {
	p := newTestProject(10)
	a := p.AddActiveEdit(0, 0, 5)

	c, err := p.DuplicateScene(a.ID)
	if err != nil {
		t.Fatalf("DuplicateScene() error = %v", err)
	}
	if c.Offset != 5 || c.Start != 5 || c.Finish != 10 || c.End() != 10 {
		t.Fatalf("copy = [start %v finish %v offset %v]", c.Start, c.Finish, c.Offset)
	}
	if c.ID == a.ID || c.IntentID != a.IntentID {
		t.Fatalf("copy = %+v", c)
	}
	if len(p.ActiveEdits(0)) != 2 {
		t.Fatalf("edits = %d, want 2", len(p.ActiveEdits(0)))
	}

	_, err = p.DuplicateScene(a.ID)
	if !errors.Is(err, ErrNoSpace) {
		t.Fatalf("DuplicateScene() error = %v, want ErrNoSpace", err)
	}
	if len(p.ActiveEdits(0)) != 2 {
		t.Fatal("failed duplicate changed the edits")
	}
}

func TestDuplicateScene_FillsFirstGap(t *testing.T) {
	p := newTestProject(40)
	a := p.AddActiveEdit(0, 0, 10)
	p.AddActiveEdit(0, 10, 12)
	p.AddActiveEdit(0, 16, 20)

	c, err := p.DuplicateScene(a.ID)
	if err != nil {
		t.Fatalf("DuplicateScene() error = %v", err)
	}
	if c.Offset != 12 || c.End() != 16 {
		t.Fatalf("copy = [%v,%v), want [12,16)", c.Offset, c.End())
	}
}

func TestDuplicateScene_VideoKeepsNativeStart(t *testing.T) {
	p := newTestProject(10)
	v := p.AddVideo("/a.mp4", 4, nil, 0)
	p.UpdateScene(v.ID, Patch{Start: Float(1)})

	c, err := p.DuplicateScene(v.ID)
	if err != nil {
		t.Fatalf("DuplicateScene() error = %v", err)
	}
	if c.Offset != 3 || c.Start != 1 || c.Finish != 4 {
		t.Fatalf("copy = [start %v finish %v offset %v], want [1 4 3]", c.Start, c.Finish, c.Offset)
	}
}

func TestDuplicateScene_Unknown(t *testing.T) {
	p := newTestProject(10)
	if _, err := p.DuplicateScene("nope"); !errors.Is(err, ErrSceneNotFound) {
		t.Fatalf("DuplicateScene() error = %v, want ErrSceneNotFound", err)
	}
}
