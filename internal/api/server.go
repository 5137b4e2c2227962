package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/fmuoria/recruit-agent/internal/agent"
	"github.com/fmuoria/recruit-agent/internal/pipeline"
	"github.com/fmuoria/recruit-agent/internal/scheduling"
)

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 1 << 20

// Server handles HTTP requests
type Server struct {
	agent        *agent.RecruitingAgent
	gmailSubject string
}

// NewServer creates a new API server. gmailSubject is the default mailbox
// search used when an ingest request does not name one.
func NewServer(a *agent.RecruitingAgent, gmailSubject string) *Server {
	return &Server{
		agent:        a,
		gmailSubject: gmailSubject,
	}
}

// Router returns the HTTP router
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleRoot)

	mux.HandleFunc("GET /jobs", s.handleListJobs)
	mux.HandleFunc("POST /jobs", s.handleCreateJob)
	mux.HandleFunc("GET /jobs/{id}", s.handleGetJob)

	mux.HandleFunc("GET /candidates", s.handleListCandidates)
	mux.HandleFunc("POST /candidates", s.handleCreateCandidate)
	mux.HandleFunc("GET /candidates/{id}", s.handleGetCandidate)
	mux.HandleFunc("PUT /candidates/{id}", s.handleUpdateCandidate)
	mux.HandleFunc("POST /candidates/{id}/reject", s.handleReject)
	mux.HandleFunc("POST /candidates/{id}/hire", s.handleHire)
	mux.HandleFunc("POST /candidates/{id}/offer", s.handleOffer)
	mux.HandleFunc("POST /candidates/{id}/voice", s.handleVoiceScreening)
	mux.HandleFunc("GET /candidates/{id}/drafts/{kind}", s.handleDraft)

	mux.HandleFunc("GET /interviewers", s.handleListInterviewers)
	mux.HandleFunc("POST /interviewers", s.handleCreateInterviewer)

	mux.HandleFunc("GET /interviews", s.handleListInterviews)
	mux.HandleFunc("POST /interviews", s.handleSchedule)
	mux.HandleFunc("PUT /interviews/{id}", s.handleReschedule)
	mux.HandleFunc("DELETE /interviews/{id}", s.handleCancel)
	mux.HandleFunc("POST /interviews/{id}/feedback", s.handleFeedback)

	mux.HandleFunc("GET /calendar", s.handleCalendar)
	mux.HandleFunc("GET /dashboard", s.handleDashboard)
	mux.HandleFunc("GET /report.xlsx", s.handleReport)

	mux.HandleFunc("POST /ingest", s.handleIngest)
	mux.HandleFunc("POST /chat", s.handleChat)

	mux.HandleFunc("POST /portal/login", s.handleLogin)
	mux.HandleFunc("GET /portal/slots", s.handleSlots)
	mux.HandleFunc("POST /portal/{id}/reschedule", s.handlePortalReschedule)

	return s.requestIDMiddleware(s.loggingMiddleware(s.recoverMiddleware(mux)))
}

// handleRoot provides API information
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"service": "Recruiting Agent",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"/jobs":        "Job postings and their interview rounds",
			"/candidates":  "Applicants, pipeline actions and email drafts",
			"/interviews":  "Schedule, reschedule, cancel and record feedback",
			"/ingest":      "Upload resumes or fetch them from Gmail",
			"/chat":        "HR assistant",
			"/portal":      "Candidate login and self-service rescheduling",
			"/dashboard":   "Pipeline statistics",
			"/calendar":    "Interviewer day view",
			"/report.xlsx": "Excel pipeline report",
		},
	})
}

// handleHealth provides a health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// decodeJSON reads a JSON request body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", agent.ErrInvalidRequest, err)
	}
	return nil
}

// respondJSON sends a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode JSON response: %v", err)
	}
}

// respondError sends an error response
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// notAvailableMessage is shown when no interviewer can take a slot
const notAvailableMessage = "No interviewers are free at this time. Please select another slot."

// respondErr maps a domain error onto an HTTP status
func (s *Server) respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scheduling.ErrNotAvailable):
		s.respondError(w, http.StatusConflict, notAvailableMessage)
	case errors.Is(err, agent.ErrInvalidRequest):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, agent.ErrNotFound),
		errors.Is(err, scheduling.ErrCandidateNotFound),
		errors.Is(err, scheduling.ErrInterviewNotFound),
		errors.Is(err, pipeline.ErrCandidateNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, pipeline.ErrInvalidTransition),
		errors.Is(err, scheduling.ErrInterviewCompleted),
		errors.Is(err, agent.ErrAlreadyScheduled),
		errors.Is(err, agent.ErrNoActiveInterview):
		s.respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, agent.ErrGmailDisabled):
		s.respondError(w, http.StatusServiceUnavailable, err.Error())
	default:
		log.Printf("internal error: %v", err)
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

type ctxKey struct{}

// RequestID returns the id assigned to the request by the middleware
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// requestIDMiddleware tags every request with an X-Request-ID
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s [%s]", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond), RequestID(r.Context()))
	})
}

// recoverMiddleware turns a handler panic into a 500
func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				log.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, p)
				s.respondError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
