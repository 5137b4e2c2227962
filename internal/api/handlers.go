package api

import (
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/fmuoria/recruit-agent/internal/agent"
	"github.com/fmuoria/recruit-agent/internal/export"
	"github.com/fmuoria/recruit-agent/internal/ingestion"
	"github.com/fmuoria/recruit-agent/internal/models"
)

// maxUploadBytes bounds a multipart resume upload
const maxUploadBytes = 32 << 20

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.agent.ListJobs())
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req models.CreateJobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondErr(w, err)
		return
	}
	job, err := s.agent.CreateJob(req)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, job)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.agent.GetJob(r.PathValue("id"))
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, job)
}

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.respondJSON(w, http.StatusOK, s.agent.ListCandidates(q.Get("job_id"), q.Get("q")))
}

func (s *Server) handleCreateCandidate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCandidateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondErr(w, err)
		return
	}
	c, err := s.agent.AddCandidate(req)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, c)
}

func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	c, err := s.agent.GetCandidate(r.PathValue("id"))
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, c)
}

func (s *Server) handleUpdateCandidate(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCandidateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondErr(w, err)
		return
	}
	c, err := s.agent.UpdateCandidate(r.PathValue("id"), req)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, c)
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	c, err := s.agent.RejectCandidate(r.PathValue("id"))
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, c)
}

func (s *Server) handleHire(w http.ResponseWriter, r *http.Request) {
	c, err := s.agent.HireCandidate(r.PathValue("id"))
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, c)
}

func (s *Server) handleOffer(w http.ResponseWriter, r *http.Request) {
	offer, err := s.agent.GenerateOffer(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, offer)
}

func (s *Server) handleVoiceScreening(w http.ResponseWriter, r *http.Request) {
	var req models.VoiceScreeningRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondErr(w, err)
		return
	}
	c, err := s.agent.RecordVoiceScreening(r.PathValue("id"), req)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, c)
}

func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request) {
	d, err := s.agent.Draft(r.PathValue("id"), agent.DraftKind(r.PathValue("kind")))
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, d)
}

func (s *Server) handleListInterviewers(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.agent.ListInterviewers())
}

func (s *Server) handleCreateInterviewer(w http.ResponseWriter, r *http.Request) {
	var req models.CreateInterviewerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondErr(w, err)
		return
	}
	iv, err := s.agent.AddInterviewer(req)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, iv)
}

func (s *Server) handleListInterviews(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.agent.ListInterviews(r.URL.Query().Get("candidate_id")))
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	var req models.ScheduleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondErr(w, err)
		return
	}
	booking, err := s.agent.ScheduleInterview(req)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, booking)
}

func (s *Server) handleReschedule(w http.ResponseWriter, r *http.Request) {
	var req models.RescheduleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondErr(w, err)
		return
	}
	booking, err := s.agent.RescheduleInterview(r.PathValue("id"), req)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, booking)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	in, err := s.agent.CancelInterview(r.PathValue("id"))
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, in)
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req models.FeedbackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondErr(w, err)
		return
	}
	outcome, c, err := s.agent.SubmitFeedback(r.PathValue("id"), req)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"outcome":   outcome,
		"candidate": c,
	})
}

// queryDate reads a YYYY-MM-DD query parameter, defaulting to today
func queryDate(r *http.Request) (string, error) {
	date := r.URL.Query().Get("date")
	if date == "" {
		return time.Now().Format(models.DateLayout), nil
	}
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return "", fmt.Errorf("%w: date must be YYYY-MM-DD", agent.ErrInvalidRequest)
	}
	return date, nil
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	date, err := queryDate(r)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"date":         date,
		"interviewers": s.agent.DaySchedule(date),
	})
}

func (s *Server) handleSlots(w http.ResponseWriter, r *http.Request) {
	date, err := queryDate(r)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"date":  date,
		"times": s.agent.AvailableSlots(date),
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.agent.Dashboard(r.URL.Query().Get("job_id")))
}

// handleReport streams the Excel pipeline report
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	snap := s.agent.Snapshot()
	report, err := export.NewReport(snap.Jobs, snap.Candidates, snap.Interviewers, snap.Interviews, r.URL.Query().Get("job_id"))
	if err != nil {
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "pipeline_report_"+time.Now().Format("20060102")+".xlsx"))
	if err := export.WriteExcel(report, w); err != nil {
		log.Printf("failed to write report: %v", err)
	}
}

// handleIngest processes resume ingestion for a job
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Failed to parse form: %v", err))
		return
	}

	jobID := r.FormValue("job_id")
	if jobID == "" {
		s.respondError(w, http.StatusBadRequest, "job_id is required")
		return
	}

	var (
		summary agent.IngestSummary
		err     error
	)
	switch method := r.FormValue("method"); method {
	case "upload", "":
		var paths []string
		paths, err = s.saveUploads(r)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		defer s.agent.FileHandler.RemoveFiles(paths)
		summary, err = s.agent.IngestResumes(r.Context(), jobID, paths)
	case "folder":
		summary, err = s.agent.IngestFromUploads(r.Context(), jobID)
	case "gmail":
		subject := r.FormValue("gmail_subject")
		if subject == "" {
			subject = s.gmailSubject
		}
		summary, err = s.agent.IngestFromGmail(r.Context(), jobID, subject)
	default:
		s.respondError(w, http.StatusBadRequest, "method must be 'upload', 'folder' or 'gmail'")
		return
	}
	if err != nil {
		s.respondErr(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, summary)
}

// saveUploads stores the uploaded resumes and returns their paths
func (s *Server) saveUploads(r *http.Request) ([]string, error) {
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		return nil, fmt.Errorf("no files uploaded")
	}

	var paths []string
	for _, fileHeader := range files {
		if !ingestion.IsSupported(fileHeader.Filename) {
			log.Printf("skipping unsupported file type: %s", fileHeader.Filename)
			continue
		}

		file, err := fileHeader.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open uploaded file: %w", err)
		}
		// uploads share one directory, so names are made unique per file
		name := uuid.NewString() + "_" + filepath.Base(fileHeader.Filename)
		path, err := s.agent.FileHandler.SaveUploadedFile(name, file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to save file %s: %w", fileHeader.Filename, err)
		}
		paths = append(paths, path)
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("no supported resume files uploaded (pdf, doc, docx, txt)")
	}
	return paths, nil
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondErr(w, err)
		return
	}
	reply, err := s.agent.Chat(r.Context(), req)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, models.ChatMessage{Role: "model", Text: reply})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondErr(w, err)
		return
	}
	portal, err := s.agent.Login(req)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, portal)
}

func (s *Server) handlePortalReschedule(w http.ResponseWriter, r *http.Request) {
	var req models.RescheduleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondErr(w, err)
		return
	}
	portal, err := s.agent.PortalReschedule(r.PathValue("id"), req)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, portal)
}
