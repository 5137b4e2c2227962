package agent

import (
	"sort"

	"github.com/fmuoria/recruit-agent/internal/models"
)

// topCandidateCount is how many candidates the dashboard highlights
const topCandidateCount = 5

// Funnel counts candidates per pipeline stage
type Funnel struct {
	Total     int `json:"total"`
	Applied   int `json:"applied"`
	Screening int `json:"screening"`
	Interview int `json:"interview"`
	Offer     int `json:"offer"`
	Rejected  int `json:"rejected"`
	Hired     int `json:"hired"`
}

func (f *Funnel) add(status models.CandidateStatus) {
	f.Total++
	switch status {
	case models.StatusApplied:
		f.Applied++
	case models.StatusScreening:
		f.Screening++
	case models.StatusInterview:
		f.Interview++
	case models.StatusOffer:
		f.Offer++
	case models.StatusRejected:
		f.Rejected++
	case models.StatusHired:
		f.Hired++
	}
}

// Dashboard summarises the hiring pipeline
type Dashboard struct {
	ActiveJobs         int                `json:"active_jobs"`
	TotalCandidates    int                `json:"total_candidates"`
	Hired              int                `json:"hired"`
	UpcomingInterviews int                `json:"upcoming_interviews"`
	Funnel             Funnel             `json:"funnel"`
	TopCandidates      []models.Candidate `json:"top_candidates"`
}

// Dashboard computes pipeline statistics. With a jobID the funnel and top
// candidates cover that job only; the headline totals always cover everything.
func (a *RecruitingAgent) Dashboard(jobID string) Dashboard {
	a.mu.Lock()
	jobs := a.store.Jobs()
	candidates := a.store.Candidates()
	interviews := a.store.Interviews()
	a.mu.Unlock()

	d := Dashboard{TotalCandidates: len(candidates)}
	for _, j := range jobs {
		if j.Status == models.JobActive {
			d.ActiveJobs++
		}
	}
	for _, in := range interviews {
		if in.Status == models.InterviewScheduled && (jobID == "" || in.JobID == jobID) {
			d.UpcomingInterviews++
		}
	}

	relevant := make([]models.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Status == models.StatusHired {
			d.Hired++
		}
		if jobID != "" && c.JobID != jobID {
			continue
		}
		d.Funnel.add(c.Status)
		relevant = append(relevant, c)
	}

	RankCandidates(relevant)
	d.TopCandidates = relevant[:min(topCandidateCount, len(relevant))]
	return d
}

// RankCandidates sorts by match score, highest first. Ties go to more
// experience, then to name.
func RankCandidates(candidates []models.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.MatchScore != b.MatchScore {
			return a.MatchScore > b.MatchScore
		}
		if a.ExperienceYears != b.ExperienceYears {
			return a.ExperienceYears > b.ExperienceYears
		}
		return a.Name < b.Name
	})
}
