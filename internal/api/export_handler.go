package api

import (
	"errors"
	"net/http"

	"github.com/heimdex/heimdex-editor/internal/export"
)

func exportHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req export.Request
		if !decodeBody(w, r, &req) {
			return
		}

		resp, err := export.Write(cfg.Editor.Snapshot(), req)
		switch {
		case errors.Is(err, export.ErrInvalidOutputDir):
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		case errors.Is(err, export.ErrNothingToExport):
			WriteError(w, http.StatusUnprocessableEntity, err.Error(), "NOTHING_TO_EXPORT")
			return
		case errors.Is(err, export.ErrUnsupportedFormat):
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		case err != nil:
			cfg.Logger.Error("export failed", "error", err, "format", req.Format)
			WriteError(w, http.StatusInternalServerError, "failed to write export file", "INTERNAL_ERROR")
			return
		}

		WriteJSON(w, http.StatusOK, resp)
	}
}
