package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/findosh/finlearn/internal/models"
)

type quizListItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Questions   int    `json:"questions"`
	MaxPoints   int    `json:"max_points"`
}

type gradeRequest struct {
	Answers map[string]string `json:"answers"`
}

// ListQuizzes returns an overview of all quizzes
func (h *Handler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes := h.catalog.Quizzes()
	items := make([]quizListItem, 0, len(quizzes))
	for _, q := range quizzes {
		items = append(items, quizListItem{
			ID:          q.ID,
			Title:       q.Title,
			Description: q.Description,
			Questions:   len(q.Questions),
			MaxPoints:   q.MaxPoints(),
		})
	}
	h.writeJSON(w, http.StatusOK, items)
}

// GetQuiz returns a quiz without its solutions
func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	q, ok := h.quiz(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, q.Public())
}

// GradeQuiz scores submitted answers
func (h *Handler) GradeQuiz(w http.ResponseWriter, r *http.Request) {
	q, ok := h.quiz(w, r)
	if !ok {
		return
	}
	var req gradeRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	result := q.Grade(req.Answers)
	h.log.Debug().Str("quiz", q.ID).Int("score", result.Score).Int("total", result.Total).Msg("Quiz graded")
	h.writeJSON(w, http.StatusOK, result)
}

// Glossary returns all glossary entries
func (h *Handler) Glossary(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.catalog.Glossary())
}

func (h *Handler) quiz(w http.ResponseWriter, r *http.Request) (*models.Quiz, bool) {
	id := chi.URLParam(r, "id")
	q, ok := h.catalog.Quiz(id)
	if !ok {
		h.writeError(w, fmt.Errorf("%s: %w", id, models.ErrUnknownQuiz))
		return nil, false
	}
	return q, true
}
