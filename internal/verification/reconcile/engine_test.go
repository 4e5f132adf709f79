package reconcile

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credverify/internal/verification/models"
	"credverify/internal/verification/risk"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func testApplicant() models.Applicant {
	return models.Applicant{
		StudentName:    "Ada Lovelace",
		DateOfBirth:    time.Date(2000, 5, 14, 0, 0, 0, 0, time.UTC),
		StudentID:      "S1234567",
		CourseName:     "Computer Science",
		FieldOfStudy:   "Computer Science",
		DegreeType:     "BSc",
		Classification: "First Class Honours",
		GraduationYear: 2022,
	}
}

func matchingData() models.ResponseData {
	return models.ResponseData{
		Status:         "verified",
		StudentName:    "Ada Lovelace",
		StudentID:      "S1234567",
		DateOfBirth:    "2000-05-14",
		CourseName:     "Computer Science",
		FieldOfStudy:   "Computer Science",
		DegreeType:     "BSc",
		Classification: "First Class Honours",
		GraduationYear: 2022,
	}
}

func testInput(data models.ResponseData) Input {
	return Input{
		Applicant:    testApplicant(),
		Data:         data,
		SubmittedAt:  testNow.Add(-10 * time.Minute),
		RespondedAt:  testNow,
		ResponseTime: 2 * time.Second,
		Now:          testNow,
	}
}

func flagCodes(flags []models.Flag) []models.FlagCode {
	codes := make([]models.FlagCode, 0, len(flags))
	for _, f := range flags {
		codes = append(codes, f.Code)
	}
	return codes
}

func TestReconcilePerfectMatch(t *testing.T) {
	res := Reconcile(testInput(matchingData()))

	assert.Equal(t, models.Scores{
		Verification:    100,
		Confidence:      100,
		DataQuality:     100,
		Completeness:    100,
		Timeliness:      100,
		MatchPercentage: 100,
	}, res.Scores)
	assert.Empty(t, res.Flags)
	assert.Equal(t, TotalFields, res.MatchedCount)
	assert.Len(t, res.Fields, TotalFields)
}

func TestReconcileMissingField(t *testing.T) {
	data := matchingData()
	data.Classification = ""

	res := Reconcile(testInput(data))

	assert.Equal(t, []models.FlagCode{models.FlagMissingField}, flagCodes(res.Flags))
	assert.Equal(t, FieldClassification, res.Flags[0].Field)
	assert.Equal(t, models.SeverityMedium, res.Flags[0].Severity)
	assert.Equal(t, 90, res.Scores.Verification)
	assert.Equal(t, 88, res.Scores.Completeness)
}

func TestReconcileOmittedOptionalFieldIsNotPenalized(t *testing.T) {
	in := testInput(matchingData())
	in.Applicant.Classification = ""
	in.Data.Classification = ""

	res := Reconcile(in)

	assert.Empty(t, res.Flags)
	assert.Equal(t, 100, res.Scores.Verification)
	assert.Equal(t, TotalFields-1, res.Comparable)
	assert.Equal(t, TotalFields-1, res.MatchedCount)
	assert.Equal(t, 88, res.Scores.MatchPercentage, "7 of 8 fields")
}

func TestReconcileLowConfidenceField(t *testing.T) {
	data := matchingData()
	data.StudentID = "X9999999"

	res := Reconcile(testInput(data))

	require.Len(t, res.Flags, 1)
	assert.Equal(t, models.FlagLowConfidence, res.Flags[0].Code)
	assert.Equal(t, models.SeverityHigh, res.Flags[0].Severity)
	assert.Equal(t, 80, res.Scores.Verification)
	assert.Equal(t, TotalFields-1, res.MatchedCount)
}

func TestReconcileContentFlags(t *testing.T) {
	t.Run("sample name the applicant never gave", func(t *testing.T) {
		in := testInput(matchingData())
		in.Data.StudentName = "John Doe"

		assert.Contains(t, flagCodes(Reconcile(in).Flags), models.FlagPlaceholder)
	})
	t.Run("applicant really named John Doe", func(t *testing.T) {
		in := testInput(matchingData())
		in.Applicant.StudentName = "John Doe"
		in.Data.StudentName = "JOHN DOE"

		res := Reconcile(in)
		assert.NotContains(t, flagCodes(res.Flags), models.FlagPlaceholder)
		assert.Equal(t, 100, res.Scores.Verification)
	})
	t.Run("sample name inside a longer name", func(t *testing.T) {
		in := testInput(matchingData())
		in.Applicant.StudentName = "John Doerr"
		in.Data.StudentName = "John Doerr"

		assert.NotContains(t, flagCodes(Reconcile(in).Flags), models.FlagPlaceholder)
	})
	t.Run("placeholder in raw body", func(t *testing.T) {
		in := testInput(matchingData())
		in.Raw = []byte(`{"note":"Lorem ipsum dolor"}`)

		assert.Contains(t, flagCodes(Reconcile(in).Flags), models.FlagPlaceholder)
	})
	t.Run("template braces in a nested value", func(t *testing.T) {
		in := testInput(matchingData())
		in.Raw = []byte(`{"status":"verified","data":{"course_name":"{{course}}"}}`)

		assert.Contains(t, flagCodes(Reconcile(in).Flags), models.FlagPlaceholder)
	})
	t.Run("placeholder in a non-JSON body", func(t *testing.T) {
		in := testInput(matchingData())
		in.Raw = []byte(`student: {{name}}`)

		assert.Contains(t, flagCodes(Reconcile(in).Flags), models.FlagPlaceholder)
	})
	t.Run("fast response", func(t *testing.T) {
		in := testInput(matchingData())
		in.ResponseTime = 200 * time.Millisecond

		assert.Equal(t, []models.FlagCode{models.FlagFastResponse}, flagCodes(Reconcile(in).Flags))
	})
	t.Run("no record", func(t *testing.T) {
		for _, status := range []string{"not_found", "NOT_FOUND", " No_Record "} {
			res := Reconcile(testInput(models.ResponseData{Status: status}))

			assert.Contains(t, flagCodes(res.Flags), models.FlagNoRecord, status)
			assert.Equal(t, 0, res.Scores.Verification, status)
			assert.Equal(t, 0, res.Scores.Completeness, status)
		}
	})
	t.Run("implausible date of birth", func(t *testing.T) {
		in := testInput(matchingData())
		in.Data.DateOfBirth = "2015-01-01"

		assert.Contains(t, flagCodes(Reconcile(in).Flags), models.FlagInconsistentData)
	})
}

// The institution API wraps the record in an envelope with a nested object,
// so the raw body always ends in "}}".
func TestReconcileInstitutionEnvelopeIsNotTemplateContent(t *testing.T) {
	data := matchingData()
	raw, err := json.Marshal(struct {
		RequestID string              `json:"request_id"`
		Status    string              `json:"status"`
		Data      models.ResponseData `json:"data"`
	}{"inst-9", "verified", data})
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(string(raw), "}}"))

	in := testInput(data)
	in.Raw = raw
	res := Reconcile(in)

	assert.Empty(t, res.Flags)
	assert.Equal(t, 100, res.Scores.Verification)
	assert.Equal(t, models.ResponseStatusCompleted, Decide(data, res, risk.Assess(res.Scores, res.Flags, in.ResponseTime)))
}

func TestReconcileTimeliness(t *testing.T) {
	cases := []struct {
		elapsed time.Duration
		want    int
	}{
		{30 * time.Minute, 100},
		{2 * time.Hour, 90},
		{48 * time.Hour, 75},
		{5 * 24 * time.Hour, 50},
		{30 * 24 * time.Hour, 25},
	}
	for _, tc := range cases {
		in := testInput(matchingData())
		in.SubmittedAt = testNow.Add(-tc.elapsed)
		assert.Equal(t, tc.want, Reconcile(in).Scores.Timeliness, tc.elapsed.String())
	}
}

func TestReconcileScoresStayInRange(t *testing.T) {
	variants := []models.ResponseData{
		{},
		{Status: "no_record"},
		matchingData(),
		{StudentName: "x", StudentID: "?", DateOfBirth: "garbage", GraduationYear: 1800},
		{StudentName: "Ada Lovelace", GraduationYear: 2999, DegreeType: "Wizardry"},
	}
	for i, data := range variants {
		res := Reconcile(testInput(data))
		assert.NoError(t, res.Scores.Validate(), "variant %d", i)
		assert.NotNil(t, res.Flags, "variant %d", i)
		assert.LessOrEqual(t, res.MatchedCount, res.Comparable, "variant %d", i)
	}
}

func TestSummary(t *testing.T) {
	in := testInput(matchingData())
	res := Reconcile(in)

	s := res.Summary(in)
	assert.Equal(t, TotalFields, s.TotalFields)
	assert.Equal(t, res.MatchedCount, s.MatchedCount)
	assert.Equal(t, in.ResponseTime, s.ResponseTime)
	assert.Equal(t, testNow, s.ReconciledAt)
}

func TestDecide(t *testing.T) {
	low := models.RiskAssessment{Tier: models.RiskLow}
	medium := models.RiskAssessment{Tier: models.RiskMedium}
	scored := func(v int) Result { return Result{Scores: models.Scores{Verification: v}} }

	assert.Equal(t, models.ResponseStatusCompleted, Decide(matchingData(), scored(95), low))
	assert.Equal(t, models.ResponseStatusRequiresReview, Decide(matchingData(), scored(95), medium))
	assert.Equal(t, models.ResponseStatusRequiresReview, Decide(matchingData(), scored(70), low))
	assert.Equal(t, models.ResponseStatusDiscrepancy, Decide(matchingData(), scored(40), low))
	assert.Equal(t, models.ResponseStatusDiscrepancy, Decide(models.ResponseData{Status: "not_found"}, scored(100), low))
}

func TestDecideAI(t *testing.T) {
	assert.Equal(t, models.ResponseStatusCompleted, DecideAI(0.90))
	assert.Equal(t, models.ResponseStatusCompleted, DecideAI(0.85))
	assert.Equal(t, models.ResponseStatusRequiresReview, DecideAI(0.70))
	assert.Equal(t, models.ResponseStatusRequiresReview, DecideAI(0.40))
}
