package export

import (
	"strings"
	"testing"
)

func TestGenerateEDL_Header(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{30, "FCM: NON-DROP FRAME"},
		{25, "FCM: NON-DROP FRAME"},
		{29.97, "FCM: DROP FRAME"},
		{59.94, "FCM: DROP FRAME"},
	}
	for _, tt := range tests {
		edl := GenerateEDL(nil, "Cut", tt.rate)
		if !strings.HasPrefix(edl, "TITLE: Cut\n"+tt.want+"\n") {
			t.Errorf("GenerateEDL(rate=%v) header = %q", tt.rate, edl)
		}
	}
}

func TestGenerateEDL_Events(t *testing.T) {
	clips := []Clip{
		{ClipName: "beach.mp4", MediaPath: "/media/beach-day_01.mp4", SceneID: "s1", StartMs: 0, EndMs: 1000, RecordInMs: 0},
		{ClipName: "overlay.mov", MediaPath: "/media/overlay.mov", SceneID: "s2", Layer: 1, StartMs: 4000, EndMs: 5500, RecordInMs: 3000},
	}

	edl := GenerateEDL(clips, "Multi", 30)

	for _, want := range []string{
		"001  BEACHDAY V     C        00:00:00:00 00:00:01:00 00:00:00:00 00:00:01:00",
		"* FROM CLIP NAME:  beach.mp4",
		"* MEDIA PATH:  /media/beach-day_01.mp4",
		"* SCENE:  s1",
		"002  OVERLAY  V2    C        00:00:04:00 00:00:05:15 00:00:03:00 00:00:04:15",
	} {
		if !strings.Contains(edl, want) {
			t.Fatalf("EDL missing %q:\n%s", want, edl)
		}
	}
}

func TestReelName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/m/intro.mp4", "INTRO"},
		{"/m/a very long name.mp4", "AVERYLON"},
		{"/m/__.mp4", defaultReel},
		{"/m/촬영.mp4", defaultReel},
	}
	for _, tt := range tests {
		if got := reelName(tt.path); got != tt.want {
			t.Errorf("reelName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestTimecodeFormat(t *testing.T) {
	tests := []struct {
		name string
		ms   int
		rate float64
		want string
	}{
		{"zero", 0, 30, "00:00:00:00"},
		{"half second", 500, 30, "00:00:00:15"},
		{"minute and a bit", 61_000, 30, "00:01:01:00"},
		{"hour", 3_600_000, 30, "01:00:00:00"},
		{"pal", 1480, 25, "00:00:01:12"},
		{"unset rate", 1000, 0, "00:00:01:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := newTimecode(tt.rate).format(tt.ms); got != tt.want {
				t.Fatalf("format(%d) = %q, want %q", tt.ms, got, tt.want)
			}
		})
	}
}
