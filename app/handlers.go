package app

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"eduverse/examcoach"
	"eduverse/metrics"

	"github.com/gorilla/mux"
)

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"name":    "EduVerse API",
		"status":  "running",
		"version": Version,
	})
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) listSubjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, successResponse{
		Success: true,
		Result: map[string]interface{}{
			"subjects": s.coach.Subjects(),
			"fallback": examcoach.GenericCategory,
		},
	})
}

func (s *Server) generateExam(w http.ResponseWriter, r *http.Request) {
	var req examcoach.GenerateRequest
	if status, err := decodeJSON(w, r, s.config.API.JSONBodyLimit, &req); err != nil {
		writeError(w, status, err.Error(), nil, nil)
		return
	}

	exam, err := s.coach.Generate(req)
	if err != nil {
		s.writeCoachError(w, err)
		return
	}

	metrics.ExamsGenerated.WithLabelValues(exam.Category).Inc()
	s.logger.Infow("Exam generated",
		"request_id", RequestIDFromContext(r.Context()),
		"exam_id", exam.ID,
		"category", exam.Category,
		"questions", len(exam.Questions))

	writeJSON(w, http.StatusOK, successResponse{Success: true, Result: exam})
}

func (s *Server) evaluateExam(w http.ResponseWriter, r *http.Request) {
	var req examcoach.EvaluateRequest
	if status, err := decodeJSON(w, r, s.config.API.JSONBodyLimit, &req); err != nil {
		writeError(w, status, err.Error(), nil, nil)
		return
	}

	eval, err := s.coach.Evaluate(req)
	if err != nil {
		s.writeCoachError(w, err)
		return
	}

	metrics.ExamEvaluations.Inc()
	metrics.ExamScore.Observe(float64(eval.Score))

	writeJSON(w, http.StatusOK, successResponse{Success: true, Result: eval})
}

func (s *Server) getExam(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	exam, ok := s.coach.Exam(id)
	if !ok {
		s.writeCoachError(w, fmt.Errorf("%w: %s", examcoach.ErrExamNotFound, id))
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true, Result: exam})
}

// writeCoachError maps exam coach errors onto HTTP statuses
func (s *Server) writeCoachError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, examcoach.ErrInvalidRequest), errors.Is(err, examcoach.ErrUnknownQuestion):
		writeError(w, http.StatusBadRequest, err.Error(), nil, nil)
	case errors.Is(err, examcoach.ErrExamNotFound):
		writeError(w, http.StatusNotFound, err.Error(), nil, nil)
	default:
		writeError(w, http.StatusInternalServerError, "exam coach failed", err, s.logger)
	}
}
