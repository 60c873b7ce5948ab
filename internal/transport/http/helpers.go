package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"chapter-quiz-service/internal/domain"
)

type errorPayload struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrChapterNotFound),
		errors.Is(err, domain.ErrQuestionNotFound):
		writeJSON(w, http.StatusNotFound, errorPayload{Message: err.Error()})
	case errors.Is(err, domain.ErrEmptySelection),
		errors.Is(err, domain.ErrAnswerNotFound):
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorPayload{Message: "request failed"})
	}
}

// parseIntList parses "1,2,3"; empty input yields nil.
func parseIntList(raw string) ([]int, error) {
	var out []int
	for _, part := range splitList(raw) {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid chapter number %q", part)
		}
		out = append(out, n)
	}
	return out, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
