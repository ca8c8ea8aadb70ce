package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/heimdex/heimdex-editor/internal/editor"
	"github.com/heimdex/heimdex-editor/internal/export"
	"github.com/heimdex/heimdex-editor/internal/suggest"
)

const maxDocumentBytes = 32 << 20

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(CORSAllowlist())

	r.Get("/health", healthHandler(cfg))

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.AuthToken, cfg.Logger))

		r.Get("/status", statusHandler(cfg))
		r.Get("/edit-operations", editOperationsHandler(cfg))

		r.Get("/project", getProjectHandler(cfg))
		r.Patch("/project", updateProjectHandler(cfg))
		r.Post("/project/reset", resetProjectHandler(cfg))
		r.Post("/project/save", saveProjectHandler(cfg))
		r.Post("/project/load", loadProjectHandler(cfg))
		r.Get("/project/document", projectDocumentHandler(cfg))
		r.Put("/project/show-suggestions", showSuggestionsHandler(cfg))
		r.Get("/projects", listProjectsHandler(cfg))

		r.Get("/videos", listVideosHandler(cfg))
		r.Post("/videos", addVideoHandler(cfg))
		r.Get("/scenes/{id}", getSceneHandler(cfg))
		r.Patch("/scenes/{id}", updateSceneHandler(cfg))
		r.Delete("/scenes/{id}", deleteSceneHandler(cfg))
		r.Post("/scenes/{id}/drag", dragSceneHandler(cfg))
		r.Post("/scenes/{id}/split", splitSceneHandler(cfg))
		r.Post("/scenes/{id}/duplicate", duplicateSceneHandler(cfg))

		r.Get("/tracks", listTracksHandler(cfg))
		r.Post("/tracks", addTrackHandler(cfg))
		r.Post("/tracks/{id}/move", moveTrackHandler(cfg))
		r.Get("/tracks/{id}/gaps", trackGapsHandler(cfg))

		r.Get("/transcript", transcriptHandler(cfg))
		r.Get("/objects", orderedObjectsHandler(cfg))
		r.Get("/objects/{kind}", objectsHandler(cfg))
		r.Get("/skipped-parts", skippedPartsHandler(cfg))
		r.Post("/navigate", navigateHandler(cfg))

		r.Get("/intents", listIntentsHandler(cfg))
		r.Post("/intents", addIntentHandler(cfg))
		r.Get("/intents/{pos}", getIntentHandler(cfg))
		r.Patch("/intents/{pos}", updateIntentHandler(cfg))
		r.Delete("/intents/{pos}", deleteIntentHandler(cfg))
		r.Post("/intents/{pos}/select", selectIntentHandler(cfg))
		r.Post("/intents/{pos}/copy", copyIntentHandler(cfg))
		r.Post("/intents/{pos}/branch", branchIntentHandler(cfg))
		r.Post("/intents/{pos}/edits", addEditHandler(cfg))
		r.Delete("/intents/{pos}/edits", deleteEditsHandler(cfg))

		r.Post("/suggestions", requestSuggestionsHandler(cfg))
		r.Get("/suggestions/status", suggestionStatusHandler(cfg))
		r.Post("/suggestions/accept-all", acceptAllSuggestionsHandler(cfg))
		r.Post("/suggestions/{id}/accept", acceptSuggestionHandler(cfg))
		r.Post("/suggestions/{id}/reject", rejectSuggestionHandler(cfg))

		// These touch the local filesystem.
		r.Group(func(r chi.Router) {
			r.Use(LoopbackGuard())
			r.Post("/project/import", importProjectHandler(cfg))
			r.Post("/export", exportHandler(cfg))
			r.Get("/scenes/{id}/media", sceneMediaHandler(cfg))
			r.Head("/scenes/{id}/media", sceneMediaHandler(cfg))
		})
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := cfg.Version
		if version == "" {
			version = "0.1.0"
		}
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: version,
			UptimeS: int64(time.Since(cfg.StartTime).Seconds()),
		})
	}
}

func statusHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := cfg.Editor.Status()

		state := "idle"
		if cfg.Autosaver != nil && cfg.Autosaver.IsPaused() {
			state = "paused"
		}
		switch {
		case st.Suggestion.InFlight():
			state = "suggesting"
		case st.Suggestion.State == suggest.StateFailed && state == "idle":
			state = "error"
		}

		resp := StatusResponse{State: state, Project: st}
		if cfg.Autosaver != nil {
			resp.Autosave = &AutosaveInfo{
				Running: cfg.Autosaver.IsRunning(),
				Paused:  cfg.Autosaver.IsPaused(),
			}
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func editOperationsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, EditOperationsResponse{Operations: cfg.Editor.EditOperations()})
	}
}

func getProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, cfg.Editor.Snapshot())
	}
}

func updateProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req editor.MetadataPatch
		if !decodeBody(w, r, &req) {
			return
		}
		meta, err := cfg.Editor.UpdateMetadata(req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, meta)
	}
}

func resetProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg.Editor.Reset()
		WriteJSON(w, http.StatusOK, cfg.Editor.Status())
	}
}

func saveProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := cfg.Editor.Save(r.Context()); err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, cfg.Editor.Status())
	}
}

func loadProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoadProjectRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.ID == "" {
			WriteError(w, http.StatusBadRequest, "id is required", "BAD_REQUEST")
			return
		}
		if err := cfg.Editor.Load(r.Context(), req.ID); err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, cfg.Editor.Status())
	}
}

func listProjectsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := cfg.Editor.ListProjects(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		resp := ProjectsResponse{Projects: make([]ProjectSummaryResponse, len(projects))}
		for i, p := range projects {
			resp.Projects[i] = ProjectSummaryResponse{
				ID:        p.ID,
				Title:     p.Title,
				Duration:  p.Duration,
				UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
			}
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

// projectDocumentHandler downloads the open project as a YAML document that
// /project/import accepts.
func projectDocumentHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := cfg.Editor.Snapshot()
		data, err := export.MarshalDocument(snap)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to encode project", "INTERNAL_ERROR")
			return
		}
		name := export.SanitizeName(snap.Metadata.Title, 120)
		if name == "" {
			name = "heimdex_project"
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".yaml"))
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}

func importProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentBytes))
		if err != nil {
			WriteError(w, http.StatusBadRequest, "failed to read request body", "BAD_REQUEST")
			return
		}
		snap, err := export.UnmarshalDocument(data)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}
		if err := cfg.Editor.Import(snap); err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, cfg.Editor.Status())
	}
}

func showSuggestionsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ShowSuggestionsRequest
		if !decodeBody(w, r, &req) {
			return
		}
		cfg.Editor.SetShowSuggestions(req.Show)
		w.WriteHeader(http.StatusNoContent)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return false
	}
	return true
}

func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		WriteError(w, http.StatusBadRequest, name+" must be an integer", "BAD_REQUEST")
		return 0, false
	}
	return n, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, editor.ErrInvalidRequest):
		WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
	case errors.Is(err, editor.ErrNotFound):
		WriteError(w, http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, editor.ErrNoSpace):
		WriteError(w, http.StatusConflict, "Cannot duplicate this segment. No space left.", "NO_SPACE")
	case errors.Is(err, editor.ErrRequestInFlight):
		WriteError(w, http.StatusConflict, err.Error(), "CONFLICT")
	case errors.Is(err, editor.ErrDependencyUnavailable):
		WriteError(w, http.StatusServiceUnavailable, err.Error(), "UNAVAILABLE")
	case errors.Is(err, export.ErrInvalidOutputDir):
		WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
	default:
		WriteError(w, http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
