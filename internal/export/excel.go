package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fmuoria/recruit-agent/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet    = "Summary"
	candidatesSheet = "Ranked Candidates"
	interviewsSheet = "Interviews"
)

// Report is the pipeline data exported to a workbook
type Report struct {
	Title        string
	Generated    time.Time
	Jobs         []models.Job
	Candidates   []models.Candidate
	Interviewers []models.Interviewer
	Interviews   []models.Interview
}

// NewReport selects the records for one job, or everything when jobID is empty.
// Candidates are ranked by match score.
func NewReport(jobs []models.Job, candidates []models.Candidate, interviewers []models.Interviewer, interviews []models.Interview, jobID string) (Report, error) {
	r := Report{Title: "All Jobs", Generated: time.Now(), Interviewers: interviewers}

	if jobID == "" {
		r.Jobs = jobs
		r.Candidates = append([]models.Candidate(nil), candidates...)
		r.Interviews = interviews
	} else {
		found := false
		for _, j := range jobs {
			if j.ID == jobID {
				r.Jobs = []models.Job{j}
				r.Title = j.Title
				found = true
				break
			}
		}
		if !found {
			return Report{}, fmt.Errorf("job %s not found", jobID)
		}
		for _, c := range candidates {
			if c.JobID == jobID {
				r.Candidates = append(r.Candidates, c)
			}
		}
		for _, in := range interviews {
			if in.JobID == jobID {
				r.Interviews = append(r.Interviews, in)
			}
		}
	}

	sort.SliceStable(r.Candidates, func(i, j int) bool {
		a, b := r.Candidates[i], r.Candidates[j]
		if a.MatchScore != b.MatchScore {
			return a.MatchScore > b.MatchScore
		}
		if a.ExperienceYears != b.ExperienceYears {
			return a.ExperienceYears > b.ExperienceYears
		}
		return a.Name < b.Name
	})
	return r, nil
}

// ExportToExcel writes the pipeline report to outputPath
func ExportToExcel(r Report, outputPath string) error {
	f, err := Build(r)
	if err != nil {
		return err
	}
	defer f.Close()

	// Ensure output path has .xlsx extension
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath = outputPath + ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)

	if err := f.SaveAs(outputPath); err != nil {
		// If direct save fails, try buffer write fallback
		var buf bytes.Buffer
		if writeErr := f.Write(&buf); writeErr != nil {
			return fmt.Errorf("failed to save Excel file: direct save failed (%v), buffer write also failed: %w", err, writeErr)
		}
		if fileErr := os.WriteFile(outputPath, buf.Bytes(), 0644); fileErr != nil {
			return fmt.Errorf("failed to save Excel file: direct save failed (%v), file write failed: %w", err, fileErr)
		}
	}

	return nil
}

// WriteExcel streams the report workbook to w
func WriteExcel(r Report, w io.Writer) error {
	f, err := Build(r)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

// Build lays out the report workbook
func Build(r Report) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{candidatesSheet, interviewsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}

	if err := createSummarySheet(f, r); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := createCandidatesSheet(f, r); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create candidates sheet: %w", err)
	}
	if err := createInterviewsSheet(f, r); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create interviews sheet: %w", err)
	}
	return f, nil
}

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

func headerStyle(f *excelize.File, size float64) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: size, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	})
}

// scoreBand returns the fill colour for a match score
func scoreBand(score int) string {
	switch {
	case score >= 90:
		return "C6EFCE"
	case score >= 80:
		return "FFEB9C"
	case score >= 50:
		return "FFC7CE"
	default:
		return "FF9999"
	}
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func writeHeader(f *excelize.File, sheet string, headers []string, widths []float64) error {
	style, err := headerStyle(f, 11)
	if err != nil {
		return err
	}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, widths[i])
		f.SetCellValue(sheet, cell(i+1, 1), h)
	}
	f.SetCellStyle(sheet, cell(1, 1), cell(len(headers), 1), style)

	// Freeze top row
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// createSummarySheet writes the report title, status counts and score statistics
func createSummarySheet(f *excelize.File, r Report) error {
	sheet := summarySheet
	f.SetColWidth(sheet, "A", "A", 28)
	f.SetColWidth(sheet, "B", "B", 40)

	titleStyle, err := headerStyle(f, 14)
	if err != nil {
		return err
	}
	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	row := 1
	section := func(title string) {
		f.SetCellValue(sheet, cell(1, row), title)
		f.SetCellStyle(sheet, cell(1, row), cell(2, row), titleStyle)
		f.MergeCell(sheet, cell(1, row), cell(2, row))
		row++
	}
	line := func(label string, value any) {
		f.SetCellValue(sheet, cell(1, row), label)
		f.SetCellStyle(sheet, cell(1, row), cell(1, row), labelStyle)
		f.SetCellValue(sheet, cell(2, row), value)
		row++
	}

	section("Recruiting Pipeline Report")
	row++
	line("Job:", r.Title)
	line("Generated:", r.Generated.Format("2006-01-02 15:04:05"))
	line("Jobs:", len(r.Jobs))
	line("Candidates:", len(r.Candidates))
	line("Interviews:", len(r.Interviews))
	row++

	section("Pipeline Status:")
	counts := map[models.CandidateStatus]int{}
	for _, c := range r.Candidates {
		counts[c.Status]++
	}
	for _, status := range models.AllCandidateStatuses {
		line(string(status)+":", counts[status])
	}
	row++

	if len(r.Candidates) == 0 {
		return nil
	}

	section("Match Scores:")
	total, lo, hi := 0, r.Candidates[0].MatchScore, r.Candidates[0].MatchScore
	for _, c := range r.Candidates {
		total += c.MatchScore
		lo = min(lo, c.MatchScore)
		hi = max(hi, c.MatchScore)
	}
	line("Average Score:", fmt.Sprintf("%.2f", float64(total)/float64(len(r.Candidates))))
	line("Highest Score:", hi)
	line("Lowest Score:", lo)

	return nil
}

// createCandidatesSheet lists candidates by rank, colour-coded by match score
func createCandidatesSheet(f *excelize.File, r Report) error {
	sheet := candidatesSheet
	headers := []string{"Rank", "Candidate", "Email", "Job", "Status", "Round", "Match Score", "Experience (yrs)", "Skills", "Applied", "AI Reasoning"}
	widths := []float64{8, 25, 30, 25, 12, 8, 12, 16, 35, 12, 60}
	if err := writeHeader(f, sheet, headers, widths); err != nil {
		return err
	}

	jobTitles := map[string]string{}
	for _, j := range r.Jobs {
		jobTitles[j.ID] = j.Title
	}

	styles := map[string]int{}
	for i, c := range r.Candidates {
		row := i + 2
		values := []any{
			i + 1,
			c.Name,
			c.Email,
			jobTitles[c.JobID],
			string(c.Status),
			c.CurrentRound,
			c.MatchScore,
			c.ExperienceYears,
			strings.Join(c.Skills, ", "),
			c.AppliedDate,
			c.AIReasoning,
		}
		for col, v := range values {
			f.SetCellValue(sheet, cell(col+1, row), v)
		}

		// Apply color-coding based on match score
		band := scoreBand(c.MatchScore)
		style, ok := styles[band]
		if !ok {
			var err error
			style, err = f.NewStyle(&excelize.Style{
				Fill:      excelize.Fill{Type: "pattern", Color: []string{band}, Pattern: 1},
				Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
				Border:    thinBorder,
			})
			if err != nil {
				return err
			}
			styles[band] = style
		}
		f.SetCellStyle(sheet, cell(1, row), cell(len(headers), row), style)
	}

	// Enable auto-filter
	if len(r.Candidates) > 0 {
		lastCol, _ := excelize.ColumnNumberToName(len(headers))
		if err := f.AutoFilter(sheet, fmt.Sprintf("A1:%s%d", lastCol, len(r.Candidates)+1), []excelize.AutoFilterOptions{}); err != nil {
			return err
		}
	}
	return nil
}

// createInterviewsSheet lists every booking with its outcome
func createInterviewsSheet(f *excelize.File, r Report) error {
	sheet := interviewsSheet
	headers := []string{"Date", "Time", "Candidate", "Interviewer", "Round", "Status", "Result", "Meet Link", "Feedback"}
	widths := []float64{12, 8, 25, 25, 8, 12, 10, 40, 60}
	if err := writeHeader(f, sheet, headers, widths); err != nil {
		return err
	}

	candidateNames := map[string]string{}
	for _, c := range r.Candidates {
		candidateNames[c.ID] = c.Name
	}
	interviewerNames := map[string]string{}
	for _, iv := range r.Interviewers {
		interviewerNames[iv.ID] = iv.Name
	}

	interviews := append([]models.Interview(nil), r.Interviews...)
	sort.SliceStable(interviews, func(i, j int) bool {
		if interviews[i].Date != interviews[j].Date {
			return interviews[i].Date < interviews[j].Date
		}
		return interviews[i].Time < interviews[j].Time
	})

	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		Border:    thinBorder,
	})
	if err != nil {
		return err
	}

	for i, in := range interviews {
		row := i + 2
		result := ""
		if res, ok := in.Result.Get(); ok {
			result = string(res)
		}
		values := []any{
			in.Date,
			in.Time,
			candidateNames[in.CandidateID],
			interviewerNames[in.InterviewerID],
			in.RoundNumber,
			string(in.Status),
			result,
			in.MeetLink,
			in.Feedback.OrElse(""),
		}
		for col, v := range values {
			f.SetCellValue(sheet, cell(col+1, row), v)
		}
		f.SetCellStyle(sheet, cell(1, row), cell(len(headers), row), wrapStyle)
	}
	return nil
}
