// Package media streams the source files of video scenes to the rendering
// layer, with byte-range support so players can seek.
package media

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

var (
	// ErrNotLocal is returned for sources that are not absolute local paths,
	// such as remote URLs, which the client loads itself.
	ErrNotLocal = errors.New("source is not a local file")
	ErrMissing  = errors.New("source file not found")
)

type Server struct {
	logger *slog.Logger
}

func NewServer(logger *slog.Logger) *Server {
	return &Server{logger: logger}
}

// ServeSource writes the file at source, or the part of it the Range header
// asks for. Errors returned before anything is written are ErrNotLocal,
// ErrMissing or an I/O error; range problems are answered directly.
func (s *Server) ServeSource(w http.ResponseWriter, r *http.Request, source string) error {
	if !filepath.IsAbs(source) {
		return ErrNotLocal
	}
	f, err := os.Open(source)
	if errors.Is(err, os.ErrNotExist) {
		return ErrMissing
	}
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if info.IsDir() {
		return ErrMissing
	}
	size := info.Size()

	h := w.Header()
	h.Set("Accept-Ranges", "bytes")
	h.Set("Content-Type", contentType(source))

	br, err := ParseByteRange(r.Header.Get("Range"), size)
	switch {
	case errors.Is(err, ErrUnsatisfiable):
		h.Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		http.Error(w, "Range Not Satisfiable", http.StatusRequestedRangeNotSatisfiable)
		return nil
	case err != nil:
		// a malformed Range header is ignored
		br = nil
	}

	if br == nil {
		h.Set("Content-Length", strconv.FormatInt(size, 10))
		w.WriteHeader(http.StatusOK)
		if r.Method != http.MethodHead {
			s.copy(w, f, size)
		}
		return nil
	}

	if _, err := f.Seek(br.First, io.SeekStart); err != nil {
		return fmt.Errorf("seek source: %w", err)
	}
	h.Set("Content-Length", strconv.FormatInt(br.Length(), 10))
	h.Set("Content-Range", br.ContentRange(size))
	w.WriteHeader(http.StatusPartialContent)
	if r.Method == http.MethodHead {
		return nil
	}
	s.copy(w, f, br.Length())
	return nil
}

func (s *Server) copy(w io.Writer, f *os.File, n int64) {
	if _, err := io.CopyN(w, f, n); err != nil && s.logger != nil {
		s.logger.Debug("media stream interrupted", "error", err)
	}
}

func contentType(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
