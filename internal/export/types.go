package export

const (
	FormatEDL  = "edl"
	FormatYAML = "yaml"
)

// Request asks for the open project to be written to OutputDir.
type Request struct {
	Format    string  `json:"format"`
	OutputDir string  `json:"output_dir"`
	Name      string  `json:"name"`
	FrameRate float64 `json:"frame_rate"`
}

// Clip is one EDL event: a stretch of a source video and the place on the
// record timeline it plays at.
type Clip struct {
	ClipName   string
	MediaPath  string
	SceneID    string
	TrackID    int
	Layer      int
	StartMs    int
	EndMs      int
	RecordInMs int
}

type Response struct {
	Status     string `json:"status"`
	Format     string `json:"format"`
	OutputPath string `json:"output_path"`
	ClipCount  int    `json:"clip_count"`
}
