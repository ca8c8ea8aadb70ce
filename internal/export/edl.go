package export

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"unicode"
)

const defaultReel = "AX"

// GenerateEDL renders clips as a CMX 3600 edit decision list. Each clip is
// recorded at its own RecordInMs on the video channel of its layer.
func GenerateEDL(clips []Clip, title string, frameRate float64) string {
	tc := newTimecode(frameRate)

	var b strings.Builder
	fmt.Fprintf(&b, "TITLE: %s\n", title)
	if tc.drop {
		b.WriteString("FCM: DROP FRAME\n")
	} else {
		b.WriteString("FCM: NON-DROP FRAME\n")
	}
	b.WriteString("\n")

	for i, clip := range clips {
		length := clip.EndMs - clip.StartMs
		fmt.Fprintf(&b, "%03d  %-8s %-5s C        %s %s %s %s\n",
			i+1, reelName(clip.MediaPath), channel(clip.Layer),
			tc.format(clip.StartMs), tc.format(clip.EndMs),
			tc.format(clip.RecordInMs), tc.format(clip.RecordInMs+length))
		fmt.Fprintf(&b, "* FROM CLIP NAME:  %s\n", clip.ClipName)
		fmt.Fprintf(&b, "* MEDIA PATH:  %s\n", clip.MediaPath)
		if clip.SceneID != "" {
			fmt.Fprintf(&b, "* SCENE:  %s\n", clip.SceneID)
		}
	}

	return b.String()
}

// reelName derives an 8 character reel from the source file name.
func reelName(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var reel []rune
	for _, r := range base {
		if len(reel) == 8 {
			break
		}
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			reel = append(reel, unicode.ToUpper(r))
		}
	}
	if len(reel) == 0 {
		return defaultReel
	}
	return string(reel)
}

// channel names the video channel for a layer; layer 0 is the top track.
func channel(layer int) string {
	if layer <= 0 {
		return "V"
	}
	return fmt.Sprintf("V%d", layer+1)
}

type timecode struct {
	fps  int
	drop bool
}

func newTimecode(frameRate float64) timecode {
	fps := int(math.Round(frameRate))
	if fps <= 0 {
		fps = 30
	}
	return timecode{
		fps:  fps,
		drop: math.Abs(frameRate-29.97) < 0.01 || math.Abs(frameRate-59.94) < 0.01,
	}
}

func (tc timecode) format(ms int) string {
	frames := int(math.Round(float64(ms) * float64(tc.fps) / 1000.0))
	secs := frames / tc.fps
	return fmt.Sprintf("%02d:%02d:%02d:%02d", secs/3600, secs/60%60, secs%60, frames%tc.fps)
}

func secToMs(sec float64) int {
	return int(math.Round(sec * 1000))
}
