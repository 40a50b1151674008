// Package http exposes the quiz to presentation layers: a JSON API over
// the service's query methods and mutators, plus a websocket that
// pushes the leaderboard on every change.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"pubquiz-service/internal/app"
	"pubquiz-service/internal/domain"
)

// Handler serves the JSON API.
type Handler struct {
	service *app.QuizService
	log     *zap.Logger
}

// NewMux wires all routes, including the websocket endpoint.
func NewMux(service *app.QuizService, log *zap.Logger) *http.ServeMux {
	h := &Handler{service: service, log: log}
	ws := NewWSHandler(service, log)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /api/leaderboard", h.leaderboard)
	mux.HandleFunc("GET /api/sections", h.sections)
	mux.HandleFunc("GET /api/sections/{section}", h.sectionDetail)
	mux.HandleFunc("GET /api/sections/{section}/questions/{nr}", h.questionDetail)
	mux.HandleFunc("PUT /api/sections/{section}/questions/{nr}/answers", h.setCorrectAnswers)
	mux.HandleFunc("GET /api/teams", h.teams)
	mux.HandleFunc("GET /api/teams/suggestions", h.mergeSuggestions)
	mux.HandleFunc("POST /api/teams/merge", h.mergeTeams)
	mux.HandleFunc("POST /api/rescan", h.rescan)
	mux.HandleFunc("GET /ws", ws.ServeWS)
	return mux
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	rows := h.service.Leaderboard()
	if rows == nil {
		rows = []domain.LeaderboardRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) sections(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Sections())
}

func (h *Handler) sectionDetail(w http.ResponseWriter, r *http.Request) {
	questions, err := h.service.SectionDetail(r.PathValue("section"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	for i := range questions {
		questions[i].Name = displayName(questions[i].Name, questions[i].Number)
	}
	writeJSON(w, http.StatusOK, questions)
}

func (h *Handler) questionDetail(w http.ResponseWriter, r *http.Request) {
	nr, err := strconv.Atoi(r.PathValue("nr"))
	if err != nil {
		h.writeError(w, fmt.Errorf("%w: %q", domain.ErrQuestionNotFound, r.PathValue("nr")))
		return
	}
	detail, err := h.service.QuestionDetail(r.PathValue("section"), nr)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) setCorrectAnswers(w http.ResponseWriter, r *http.Request) {
	nr, err := strconv.Atoi(r.PathValue("nr"))
	if err != nil {
		h.writeError(w, fmt.Errorf("%w: %q", domain.ErrQuestionNotFound, r.PathValue("nr")))
		return
	}
	var body struct {
		Answers []string `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.service.SetCorrectAnswers(r.PathValue("section"), nr, body.Answers); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) teams(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Teams())
}

func (h *Handler) mergeSuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions := h.service.SuggestMerges()
	if suggestions == nil {
		suggestions = []app.MergeSuggestion{}
	}
	writeJSON(w, http.StatusOK, suggestions)
}

func (h *Handler) mergeTeams(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.service.MergeTeams(body.IDs); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) rescan(w http.ResponseWriter, r *http.Request) {
	added, err := h.service.Rescan(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"added": added})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSectionNotFound),
		errors.Is(err, domain.ErrQuestionNotFound),
		errors.Is(err, domain.ErrTeamNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrCannotMerge):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrMalformedRow):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// displayName shortens a question prompt for table display, falling
// back to "Question N" for unnamed questions.
func displayName(name string, number int) string {
	if name == "" {
		return fmt.Sprintf("Question %d", number)
	}
	if len(name) >= 40 {
		return name[:37] + "..."
	}
	return name
}
