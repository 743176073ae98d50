package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/boscoapparel/shop/internal/domain"
)

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(v)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// ok wraps a payload in the success envelope the frontend expects.
func ok(w http.ResponseWriter, code int, payload map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	writeJSON(w, code, body)
}

func fail(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]any{"success": false, "message": message})
}

func failWith(w http.ResponseWriter, code int, message, detail string) {
	writeJSON(w, code, map[string]any{"success": false, "message": message, "error": detail})
}

// failErr maps domain errors onto the HTTP taxonomy. notFoundMsg and dupMsg
// carry the entity-specific wording the UI shows verbatim.
func failErr(w http.ResponseWriter, err error, notFoundMsg, dupMsg string) {
	var (
		valErr   domain.ValidationError
		stockErr domain.ErrInsufficientStock
		missErr  domain.ErrProductMissing
		inUseErr domain.ErrCategoryInUse
		transErr domain.ErrInvalidTransition
	)
	switch {
	case errors.As(err, &valErr):
		fail(w, http.StatusBadRequest, valErr.Error())
	case errors.As(err, &stockErr):
		fail(w, http.StatusBadRequest, stockErr.Error())
	case errors.As(err, &missErr):
		fail(w, http.StatusNotFound, missErr.Error())
	case errors.As(err, &inUseErr):
		fail(w, http.StatusBadRequest, inUseErr.Error())
	case errors.As(err, &transErr):
		fail(w, http.StatusBadRequest, transErr.Error())
	case errors.Is(err, domain.ErrOrderDelivered):
		fail(w, http.StatusBadRequest, domain.ErrOrderDelivered.Error())
	case errors.Is(err, domain.ErrDuplicateName):
		fail(w, http.StatusBadRequest, dupMsg)
	case errors.Is(err, domain.ErrNotFound):
		fail(w, http.StatusNotFound, notFoundMsg)
	default:
		log.Error().Err(err).Msg("request failed")
		failWith(w, http.StatusInternalServerError, "Server Error", err.Error())
	}
}
