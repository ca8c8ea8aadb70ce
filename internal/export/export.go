// Package export writes the open project to files other tools can read: an
// edit decision list of the program and a YAML project document.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/heimdex/heimdex-editor/internal/timeline"
)

// ErrNothingToExport is returned for an EDL export of a project whose
// program is empty.
var ErrNothingToExport = errors.New("project has no video to export")

var ErrUnsupportedFormat = errors.New("unsupported export format")

// Write exports snap in the requested format and returns where it went.
// Request errors are reported before anything is written.
func Write(snap *timeline.Snapshot, req Request) (*Response, error) {
	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format == "" {
		format = FormatEDL
	}
	if format != FormatEDL && format != FormatYAML {
		return nil, fmt.Errorf("%w: format must be %s or %s", ErrUnsupportedFormat, FormatEDL, FormatYAML)
	}
	if err := ValidateOutputDir(req.OutputDir); err != nil {
		return nil, err
	}

	name := req.Name
	if name == "" {
		name = snap.Metadata.Title
	}
	name = SanitizeName(name, 120)
	if name == "" {
		name = "heimdex_project"
	}

	var (
		data  []byte
		count int
		ext   string
	)
	switch format {
	case FormatEDL:
		clips := Clips(snap)
		if len(clips) == 0 {
			return nil, ErrNothingToExport
		}
		frameRate := req.FrameRate
		if frameRate <= 0 {
			frameRate = float64(snap.Metadata.FPS)
		}
		data = []byte(GenerateEDL(clips, name, frameRate))
		count = len(clips)
		ext = ".edl"
	case FormatYAML:
		var err error
		if data, err = MarshalDocument(snap); err != nil {
			return nil, err
		}
		count = len(snap.Videos)
		ext = ".yaml"
	}

	outputPath := filepath.Join(req.OutputDir, name+ext)
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("write export file: %w", err)
	}
	return &Response{
		Status:     "ok",
		Format:     format,
		OutputPath: outputPath,
		ClipCount:  count,
	}, nil
}
