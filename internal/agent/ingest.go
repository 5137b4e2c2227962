package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/fmuoria/recruit-agent/internal/gateway"
	"github.com/fmuoria/recruit-agent/internal/models"
	"github.com/fmuoria/recruit-agent/internal/pipeline"
	"github.com/fmuoria/recruit-agent/internal/store"
)

// BatchSize bounds how many resumes are parsed and ranked at once
const BatchSize = 3

// resumeExcerptChars is how much resume text is kept on the candidate record
const resumeExcerptChars = 1000

// IngestSummary reports the outcome of a bulk resume upload
type IngestSummary struct {
	Processed    int                `json:"processed"`
	Added        int                `json:"added"`
	AutoSelected int                `json:"auto_selected"`
	AutoRejected int                `json:"auto_rejected"`
	Failed       int                `json:"failed"`
	Candidates   []models.Candidate `json:"candidates"`
}

// IngestResumes parses and ranks resume files against a job. Files are
// processed in batches of BatchSize: batches run one after another and the
// files within a batch run concurrently. A file that cannot be read is
// skipped; candidates already added stay added.
func (a *RecruitingAgent) IngestResumes(ctx context.Context, jobID string, paths []string) (IngestSummary, error) {
	job, err := a.GetJob(jobID)
	if err != nil {
		return IngestSummary{}, err
	}

	summary := IngestSummary{Candidates: []models.Candidate{}}
	total := len(paths)
	log.Printf("ingesting %d resumes for %s", total, job.Title)
	a.reportProgress(0, total, fmt.Sprintf("Processing %d resumes...", total))

	for start := 0; start < total; start += BatchSize {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		batch := paths[start:min(start+BatchSize, total)]
		results := make([]*models.Candidate, len(batch))

		var g errgroup.Group
		for i, path := range batch {
			g.Go(func() error {
				c, err := a.processResume(ctx, job, path)
				if err != nil {
					log.Printf("skipping %s: %v", path, err)
					return nil
				}
				results[i] = &c
				return nil
			})
		}
		_ = g.Wait()

		// a cancelled batch is dropped whole
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		a.mu.Lock()
		for _, c := range results {
			summary.Processed++
			if c == nil {
				summary.Failed++
				continue
			}
			a.store.InsertCandidate(*c)
			summary.Added++
			summary.Candidates = append(summary.Candidates, *c)
			if c.Status == models.StatusInterview {
				summary.AutoSelected++
			} else {
				summary.AutoRejected++
			}
		}
		a.mu.Unlock()

		a.reportProgress(summary.Processed, total, fmt.Sprintf("Processed %d/%d resumes", summary.Processed, total))
	}

	log.Printf("ingestion done: %d added, %d auto-selected, %d failed", summary.Added, summary.AutoSelected, summary.Failed)
	return summary, nil
}

// processResume turns one file into an auto-screened candidate. AI failures
// degrade to fallback values; an unreadable file or a cancelled context is
// an error.
func (a *RecruitingAgent) processResume(ctx context.Context, job models.Job, path string) (models.Candidate, error) {
	doc, err := a.FileHandler.LoadDocument(path)
	if err != nil {
		return models.Candidate{}, err
	}

	parsed, err := a.gateway.ParseResume(ctx, doc.Context())
	if err != nil {
		if ctx.Err() != nil {
			return models.Candidate{}, ctx.Err()
		}
		logAIFailure(doc.FileName, err)
		parsed = gateway.FallbackResume()
	}

	ranking, err := a.gateway.RankCandidate(ctx, parsed, job)
	if err != nil {
		if ctx.Err() != nil {
			return models.Candidate{}, ctx.Err()
		}
		logAIFailure(doc.FileName, err)
		ranking = gateway.FallbackRanking(err)
	}

	c := models.Candidate{
		ID:              store.NewID("cand"),
		Name:            orDefault(parsed.Name, "Unknown"),
		Email:           orDefault(parsed.Email, "unknown@example.com"),
		Phone:           optionalString(parsed.Phone),
		Skills:          nonNil(parsed.Skills),
		ExperienceYears: parsed.ExperienceYears,
		Summary:         orDefault(parsed.Summary, "Parsed from resume."),
		MatchScore:      ranking.Score,
		AIReasoning:     ranking.Reasoning,
		JobID:           job.ID,
		AppliedDate:     a.today(),
		ResumeText:      doc.Excerpt(resumeExcerptChars),
	}
	pipeline.ApplyAutoScreen(&c)
	return c, nil
}

// IngestFromUploads ingests every resume currently in the uploads directory
// and removes those files once they are processed
func (a *RecruitingAgent) IngestFromUploads(ctx context.Context, jobID string) (IngestSummary, error) {
	paths, err := a.FileHandler.ListResumes()
	if err != nil {
		return IngestSummary{}, fmt.Errorf("failed to list uploads: %w", err)
	}
	if len(paths) == 0 {
		return IngestSummary{}, fmt.Errorf("no resumes found in uploads directory")
	}

	summary, err := a.IngestResumes(ctx, jobID, paths)
	if err != nil {
		return summary, err
	}
	a.FileHandler.RemoveFiles(paths)
	return summary, nil
}

// IngestFromGmail downloads resume attachments from mail matching subject
// and ingests them
func (a *RecruitingAgent) IngestFromGmail(ctx context.Context, jobID, subject string) (IngestSummary, error) {
	if a.mail == nil {
		return IngestSummary{}, ErrGmailDisabled
	}
	if _, err := a.GetJob(jobID); err != nil {
		return IngestSummary{}, err
	}

	a.reportProgress(0, 1, "Fetching emails from Gmail...")
	paths, err := a.mail.FetchAttachments(ctx, subject)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("failed to fetch Gmail attachments: %w", err)
	}
	if len(paths) == 0 {
		return IngestSummary{}, fmt.Errorf("no resumes found in emails matching %q", subject)
	}
	defer a.FileHandler.RemoveFiles(paths)
	return a.IngestResumes(ctx, jobID, paths)
}

func logAIFailure(file string, err error) {
	if gateway.IsRateLimited(err) {
		log.Printf("ai rate limited on %s, using fallback: %v", file, err)
		return
	}
	log.Printf("ai call failed on %s, using fallback: %v", file, err)
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}
