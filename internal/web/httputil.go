package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"vitae-cli/internal/mutate"
	"vitae-cli/internal/render"
)

// writeJSON marshals v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writeJSON encode error: %v", err)
	}
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// writeMutationError maps domain errors to HTTP responses.
func writeMutationError(w http.ResponseWriter, err error) {
	var nf mutate.NotFoundError
	if errors.As(err, &nf) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	var ve mutate.ValidationError
	if errors.As(err, &ve) {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	var ute render.UnknownTemplateError
	if errors.As(err, &ute) {
		writeError(w, http.StatusBadRequest, "UNKNOWN_TEMPLATE", err.Error())
		return
	}
	log.Printf("internal error: %v", err)
	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

func queryInt(r *http.Request, name string, def int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
