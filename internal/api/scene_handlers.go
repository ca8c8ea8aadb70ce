package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/heimdex/heimdex-editor/internal/editor"
	"github.com/heimdex/heimdex-editor/internal/media"
	"github.com/heimdex/heimdex-editor/internal/timeline"
)

func listVideosHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, ScenesResponse{Scenes: cfg.Editor.Videos()})
	}
}

func addVideoHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req editor.VideoInput
		if !decodeBody(w, r, &req) {
			return
		}
		sc, err := cfg.Editor.AddVideo(req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, SceneResponse{Scene: sc})
	}
}

func getSceneHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc, err := cfg.Editor.Scene(chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, SceneResponse{Scene: sc})
	}
}

func updateSceneHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req timeline.Patch
		if !decodeBody(w, r, &req) {
			return
		}
		sc, err := cfg.Editor.UpdateScene(chi.URLParam(r, "id"), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, SceneResponse{Scene: sc})
	}
}

func deleteSceneHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := cfg.Editor.RemoveScene(chi.URLParam(r, "id")); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func dragSceneHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req editor.DragInput
		if !decodeBody(w, r, &req) {
			return
		}
		scenes, err := cfg.Editor.DragScene(chi.URLParam(r, "id"), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, ScenesResponse{Scenes: scenes})
	}
}

func splitSceneHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SplitRequest
		if !decodeBody(w, r, &req) {
			return
		}
		left, right, err := cfg.Editor.SplitScene(chi.URLParam(r, "id"), req.Pivot)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, SplitResponse{Left: left, Right: right})
	}
}

func duplicateSceneHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc, err := cfg.Editor.DuplicateScene(chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, SceneResponse{Scene: sc})
	}
}

func listTracksHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, TracksResponse{Tracks: cfg.Editor.Tracks()})
	}
}

func addTrackHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusCreated, AddTrackResponse{TrackID: cfg.Editor.AddTrack()})
	}
}

func moveTrackHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := intParam(w, r, "id")
		if !ok {
			return
		}
		var req MoveTrackRequest
		if !decodeBody(w, r, &req) {
			return
		}
		order, err := cfg.Editor.MoveTrack(id, req.Over)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, TrackOrderResponse{Order: order})
	}
}

func trackGapsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := intParam(w, r, "id")
		if !ok {
			return
		}
		gaps, err := cfg.Editor.EmptySpaces(id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		resp := GapsResponse{Gaps: gaps}
		if v := r.URL.Query().Get("pxPerSec"); v != "" {
			scale, err := strconv.ParseFloat(v, 64)
			if err != nil || scale <= 0 {
				WriteError(w, http.StatusBadRequest, "pxPerSec must be a positive number", "BAD_REQUEST")
				return
			}
			resp.Pixels = make([]PixelSpan, 0, len(gaps))
			for _, g := range gaps {
				resp.Pixels = append(resp.Pixels, PixelSpan{
					Left:  timeline.SecToPx(g.Offset, scale),
					Width: timeline.SecToPx(g.Duration, scale),
				})
			}
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

// transcriptHandler returns the merged transcript. With ?t= it also reports
// which segment plays at that time.
func transcriptHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("t")
		if raw == "" {
			WriteJSON(w, http.StatusOK, TranscriptResponse{Segments: cfg.Editor.Transcript()})
			return
		}
		t, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "t must be a number", "BAD_REQUEST")
			return
		}
		segs, idx := cfg.Editor.TranscriptAt(t)
		WriteJSON(w, http.StatusOK, TranscriptResponse{Segments: segs, Index: &idx})
	}
}

func objectsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scenes, err := cfg.Editor.Objects(timeline.Kind(chi.URLParam(r, "kind")))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, ScenesResponse{Scenes: scenes})
	}
}

func orderedObjectsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, ScenesResponse{Scenes: cfg.Editor.OrderedObjects()})
	}
}

func skippedPartsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all := false
		if raw := r.URL.Query().Get("all"); raw != "" {
			b, err := strconv.ParseBool(raw)
			if err != nil {
				WriteError(w, http.StatusBadRequest, "all must be a boolean", "BAD_REQUEST")
				return
			}
			all = b
		}
		WriteJSON(w, http.StatusOK, ScenesResponse{Scenes: cfg.Editor.SkippedParts(all)})
	}
}

func navigateHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req NavigateRequest
		if !decodeBody(w, r, &req) {
			return
		}
		sc, err := cfg.Editor.Navigate(req.Direction, req.PlayPosition, req.HasSelection)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, SceneResponse{Scene: sc})
	}
}

// sceneMediaHandler streams the source file of a video scene.
func sceneMediaHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.Media == nil {
			WriteError(w, http.StatusServiceUnavailable, "media streaming is not enabled", "UNAVAILABLE")
			return
		}
		sc, err := cfg.Editor.Scene(chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if sc.Kind != timeline.KindVideo {
			WriteError(w, http.StatusBadRequest, "scene is not a video", "BAD_REQUEST")
			return
		}

		err = cfg.Media.ServeSource(w, r, sc.Source)
		switch {
		case errors.Is(err, media.ErrNotLocal):
			WriteError(w, http.StatusUnprocessableEntity, "source is not a local file", "NOT_LOCAL")
		case errors.Is(err, media.ErrMissing):
			WriteError(w, http.StatusNotFound, "source file not found", "NOT_FOUND")
		case err != nil:
			cfg.Logger.Error("failed to stream source", "scene_id", sc.ID, "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to stream source", "INTERNAL_ERROR")
		}
	}
}
