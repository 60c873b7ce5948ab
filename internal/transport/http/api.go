package http

import (
	"log"
	"net/http"
	"strings"

	"chapter-quiz-service/internal/app"
)

// API serves the read-side JSON endpoints around play sessions.
type API struct {
	service *app.PlayService
}

func NewAPI(service *app.PlayService) *API {
	return &API{service: service}
}

// NewRouter wires REST and websocket handlers onto one mux.
func NewRouter(service *app.PlayService) http.Handler {
	api := NewAPI(service)
	ws := NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /ws", ws.ServeWS)
	mux.HandleFunc("GET /chapters", api.HandleChapters)
	mux.HandleFunc("GET /categories", api.HandleCategories)
	mux.HandleFunc("GET /users/{userId}/scores", api.HandleScores)
	mux.HandleFunc("DELETE /users/{userId}/scores/{chapterId}", api.HandleResetScores)
	return mux
}

func (a *API) HandleChapters(w http.ResponseWriter, r *http.Request) {
	chapters, err := a.service.Chapters(r.Context(), splitList(r.URL.Query().Get("categories")))
	if err != nil {
		log.Printf("list chapters: %v", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chapters)
}

func (a *API) HandleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := a.service.Categories(r.Context())
	if err != nil {
		log.Printf("list categories: %v", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (a *API) HandleScores(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.PathValue("userId"))
	scores, err := a.service.ChapterScores(r.Context(), userID)
	if err != nil {
		log.Printf("chapter scores for %s: %v", userID, err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scores)
}

func (a *API) HandleResetScores(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.PathValue("userId"))
	chapterID := strings.TrimSpace(r.PathValue("chapterId"))
	if err := a.service.ResetChapterHistory(r.Context(), userID, chapterID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
