package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/heimdex/heimdex-editor/internal/editor"
)

func listIntentsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, IntentsResponse{Intents: cfg.Editor.Intents()})
	}
}

func addIntentHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusCreated, cfg.Editor.AddIntent())
	}
}

func getIntentHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pos, ok := intParam(w, r, "pos")
		if !ok {
			return
		}
		view, err := cfg.Editor.Intent(pos)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, view)
	}
}

func updateIntentHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pos, ok := intParam(w, r, "pos")
		if !ok {
			return
		}
		var req editor.IntentPatch
		if !decodeBody(w, r, &req) {
			return
		}
		view, err := cfg.Editor.UpdateIntent(pos, req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, view)
	}
}

// intentAction adapts the position-only intent operations, which report
// false for an unknown position.
func intentAction(cfg ServerConfig, action func(*editor.Service, int) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pos, ok := intParam(w, r, "pos")
		if !ok {
			return
		}
		if !action(cfg.Editor, pos) {
			writeServiceError(w, fmt.Errorf("%w: intent %d", editor.ErrNotFound, pos))
			return
		}
		WriteJSON(w, http.StatusOK, IntentsResponse{Intents: cfg.Editor.Intents()})
	}
}

func deleteIntentHandler(cfg ServerConfig) http.HandlerFunc {
	return intentAction(cfg, (*editor.Service).DeleteIntent)
}

func selectIntentHandler(cfg ServerConfig) http.HandlerFunc {
	return intentAction(cfg, (*editor.Service).SelectIntent)
}

func copyIntentHandler(cfg ServerConfig) http.HandlerFunc {
	return intentAction(cfg, (*editor.Service).CopyIntent)
}

func branchIntentHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pos, ok := intParam(w, r, "pos")
		if !ok {
			return
		}
		view, err := cfg.Editor.BranchIntent(pos)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, view)
	}
}

func addEditHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pos, ok := intParam(w, r, "pos")
		if !ok {
			return
		}
		var req AddEditRequest
		if !decodeBody(w, r, &req) {
			return
		}
		sc, err := cfg.Editor.AddEdit(pos, req.Start, req.Finish)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, SceneResponse{Scene: sc})
	}
}

func deleteEditsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pos, ok := intParam(w, r, "pos")
		if !ok {
			return
		}
		var req DeleteEditsRequest
		if !decodeBody(w, r, &req) {
			return
		}
		WriteJSON(w, http.StatusOK, DeleteEditsResponse{Deleted: cfg.Editor.DeleteEdits(pos, req.IDs)})
	}
}

func requestSuggestionsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := cfg.Editor.RequestSuggestions()
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusAccepted, SuggestionStatusResponse{Status: st})
	}
}

func suggestionStatusHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, SuggestionStatusResponse{Status: cfg.Editor.SuggestionStatus()})
	}
}

func acceptSuggestionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc, err := cfg.Editor.AcceptSuggestion(chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, SceneResponse{Scene: sc})
	}
}

func rejectSuggestionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := cfg.Editor.RejectSuggestion(chi.URLParam(r, "id")); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func acceptAllSuggestionsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, ScenesResponse{Scenes: cfg.Editor.AcceptAllSuggestions()})
	}
}
