// Package reconcile compares applicant-submitted data with institution
// returned data and scores the result. Everything here is pure and
// synchronous.
package reconcile

import (
	"math"
	"strings"
	"time"

	"credverify/internal/verification/models"
)

// Field names, in comparison order.
const (
	FieldStudentName    = "student_name"
	FieldStudentID      = "student_id"
	FieldDateOfBirth    = "date_of_birth"
	FieldCourseName     = "course_name"
	FieldDegreeType     = "degree_type"
	FieldGraduationYear = "graduation_year"
	FieldClassification = "classification"
	FieldFieldOfStudy   = "field_of_study"
)

// Weights sum to 100 so a perfect match over every field scores 100.
var fieldWeights = []struct {
	field  string
	weight int
}{
	{FieldStudentName, 20},
	{FieldStudentID, 20},
	{FieldDateOfBirth, 15},
	{FieldCourseName, 10},
	{FieldDegreeType, 10},
	{FieldGraduationYear, 10},
	{FieldClassification, 10},
	{FieldFieldOfStudy, 5},
}

// TotalFields is the size of the fixed comparison field set.
var TotalFields = len(fieldWeights)

const (
	lowConfidenceThreshold = 70
	fastResponseThreshold  = 500 * time.Millisecond
)

// Input is everything one reconciliation needs.
type Input struct {
	Applicant models.Applicant
	Data      models.ResponseData
	Raw       []byte
	// SubmittedAt and RespondedAt drive the timeliness score.
	SubmittedAt time.Time
	RespondedAt time.Time
	// ResponseTime is the institution call latency; zero when unknown.
	ResponseTime time.Duration
	Now          time.Time
}

// Result is the reconciliation output.
type Result struct {
	Fields       []models.FieldResult
	Scores       models.Scores
	Flags        []models.Flag
	MatchedCount int
	// Comparable counts fields the applicant supplied.
	Comparable int
}

// Summary converts the result for response metadata.
func (r Result) Summary(in Input) *models.ReconciliationSummary {
	return &models.ReconciliationSummary{
		Fields:       r.Fields,
		MatchedCount: r.MatchedCount,
		TotalFields:  TotalFields,
		ResponseTime: in.ResponseTime,
		ReconciledAt: in.Now,
	}
}

func fieldOfStudy(a models.Applicant) string {
	if strings.TrimSpace(a.FieldOfStudy) == "" {
		return a.CourseName
	}
	return a.FieldOfStudy
}

// values returns the submitted and returned text of field.
func values(field string, a models.Applicant, d models.ResponseData) (string, string) {
	switch field {
	case FieldStudentName:
		return a.StudentName, d.StudentName
	case FieldStudentID:
		return a.StudentID, d.StudentID
	case FieldDateOfBirth:
		return dateString(a.DateOfBirth), d.DateOfBirth
	case FieldCourseName:
		return a.CourseName, d.CourseName
	case FieldDegreeType:
		return a.DegreeType, d.DegreeType
	case FieldGraduationYear:
		return yearString(a.GraduationYear), yearString(d.GraduationYear)
	case FieldClassification:
		return a.Classification, d.Classification
	case FieldFieldOfStudy:
		return fieldOfStudy(a), d.FieldOfStudy
	}
	return "", ""
}

func compareField(field string, a models.Applicant, d models.ResponseData, now time.Time) comparison {
	switch field {
	case FieldStudentName:
		return compareStudentName(a.StudentName, a.MaidenName, d.StudentName)
	case FieldStudentID:
		return compareIdentifier(a.StudentID, d.StudentID)
	case FieldDateOfBirth:
		return compareDateOfBirth(a.DateOfBirth, d.DateOfBirth)
	case FieldCourseName:
		return compareText(a.CourseName, d.CourseName)
	case FieldDegreeType:
		return compareAlias(a.DegreeType, d.DegreeType, canonicalDegree)
	case FieldGraduationYear:
		return compareGraduationYear(a.GraduationYear, d.GraduationYear, now)
	case FieldClassification:
		return compareAlias(a.Classification, d.Classification, canonicalClassification)
	case FieldFieldOfStudy:
		return compareText(fieldOfStudy(a), d.FieldOfStudy)
	}
	return noMatch()
}

// consistent runs the format and range check for a returned field.
func consistent(field string, d models.ResponseData, now time.Time) bool {
	switch field {
	case FieldStudentName:
		return len(strings.Fields(foldName(d.StudentName))) >= 2
	case FieldStudentID:
		return validIdentifier(d.StudentID)
	case FieldDateOfBirth:
		return plausibleDOB(d.DateOfBirth, d.GraduationYear, now)
	case FieldCourseName:
		return len(foldName(d.CourseName)) >= 2
	case FieldDegreeType:
		_, known := canonicalDegree(d.DegreeType)
		return known
	case FieldGraduationYear:
		return d.GraduationYear >= models.MinGraduationYear && d.GraduationYear <= now.Year()
	case FieldClassification:
		_, known := canonicalClassification(d.Classification)
		return known
	case FieldFieldOfStudy:
		return len(foldName(d.FieldOfStudy)) >= 2
	}
	return false
}

// Reconcile runs every field comparator and aggregates scores and flags.
func Reconcile(in Input) Result {
	if in.Now.IsZero() {
		in.Now = time.Now()
	}
	var res Result
	var weightTotal, weightedScore float64
	var present, passed, confidenceSum, confidenceCount int

	for _, fw := range fieldWeights {
		submitted, returnedValue := values(fw.field, in.Applicant, in.Data)
		fr := models.FieldResult{Field: fw.field}
		supplied := strings.TrimSpace(submitted) != ""
		returned := strings.TrimSpace(returnedValue) != ""

		if returned {
			present++
			if consistent(fw.field, in.Data, in.Now) {
				passed++
			}
		}

		switch {
		case !returned:
			fr.Missing = true
			if supplied {
				res.Flags = append(res.Flags, models.Flag{
					Code:        models.FlagMissingField,
					Field:       fw.field,
					Description: "institution did not return " + fw.field,
					Severity:    models.SeverityMedium,
				})
			}
		case supplied:
			c := compareField(fw.field, in.Applicant, in.Data, in.Now)
			fr.Match, fr.Confidence = c.match, c.confidence
			confidenceSum += c.confidence
			confidenceCount++
			if c.confidence < lowConfidenceThreshold {
				res.Flags = append(res.Flags, models.Flag{
					Code:        models.FlagLowConfidence,
					Field:       fw.field,
					Description: fw.field + " does not match the submitted value",
					Severity:    models.SeverityHigh,
				})
			}
		}

		if supplied {
			res.Comparable++
			weightTotal += float64(fw.weight)
			if fr.Match {
				res.MatchedCount++
				weightedScore += float64(fw.weight) * float64(fr.Confidence) / 100
			}
		}
		res.Fields = append(res.Fields, fr)
	}

	res.Scores.Verification = percent(weightedScore, weightTotal)
	res.Scores.MatchPercentage = percent(float64(res.MatchedCount), float64(TotalFields))
	res.Scores.Completeness = percent(float64(present), float64(TotalFields))
	consistency := percent(float64(passed), float64(present))
	res.Scores.DataQuality = clamp(int(math.Round(float64(res.Scores.Completeness+consistency) / 2)))
	if confidenceCount > 0 {
		res.Scores.Confidence = clamp(int(math.Round(float64(confidenceSum) / float64(confidenceCount))))
	}
	res.Scores.Timeliness = timeliness(in.SubmittedAt, in.RespondedAt)

	res.Flags = append(res.Flags, contentFlags(in)...)
	if res.Flags == nil {
		res.Flags = []models.Flag{}
	}
	return res
}

func percent(part, whole float64) int {
	if whole <= 0 {
		return 0
	}
	return clamp(int(math.Round(part / whole * 100)))
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// timeliness buckets the institution's turnaround time.
func timeliness(submitted, responded time.Time) int {
	if submitted.IsZero() || responded.IsZero() {
		return 100
	}
	elapsed := responded.Sub(submitted)
	switch {
	case elapsed <= time.Hour:
		return 100
	case elapsed <= 24*time.Hour:
		return 90
	case elapsed <= 72*time.Hour:
		return 75
	case elapsed <= 7*24*time.Hour:
		return 50
	default:
		return 25
	}
}

func validIdentifier(s string) bool {
	n := normalizeIdentifier(s)
	if len(n) < 3 || len(n) > 20 {
		return false
	}
	for _, r := range n {
		if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

// plausibleDOB requires a parseable past date at least 15 years before the
// graduation year when one is known.
func plausibleDOB(s string, graduationYear int, now time.Time) bool {
	dob, ok := parseDate(s)
	if !ok || !dob.Before(now) || dob.Year() < 1900 {
		return false
	}
	if graduationYear > 0 && graduationYear-dob.Year() < 15 {
		return false
	}
	return true
}

func dateString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func yearString(y int) string {
	if y == 0 {
		return ""
	}
	return time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006")
}
