package verification

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cucumber/godog"

	"credverify/e2e/steps/common"
)

// TestContext is the slice of the shared context these steps need.
type TestContext interface {
	common.TestContext
	Recall(key string) (string, error)
	Multipart(path string, payload any, uploads ...common.Upload) error
	Webhook(path, secret string, body any) error
}

// Institutions seeded from e2e/testdata/institutions.json.
var institutions = map[string]string{
	"Northgate University": "8f14e45f-ceea-4672-9d1f-7b4a1c3e2d01",
	"Closed Polytechnic":   "8f14e45f-ceea-4672-9d1f-7b4a1c3e2d02",
}

const (
	dateOfBirth    = "1998-04-12"
	studentID      = "NG-20417"
	courseName     = "Computer Science"
	fieldOfStudy   = "Computing"
	degreeType     = "BSc"
	classification = "First Class"
	graduationYear = 2020
)

var samplePDF = []byte("%PDF-1.4\n1 0 obj<<>>endobj\ntrailer<<>>\n%%EOF\n")

// RegisterSteps registers submission, staff workflow and webhook steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &verificationSteps{tc: tc}

	ctx.Step(`^I submit a verification to "([^"]*)" for student "([^"]*)"$`, steps.submit)
	ctx.Step(`^I submit a verification to "([^"]*)" without consent$`, steps.submitWithoutConsent)
	ctx.Step(`^the verification status should be "([^"]*)"$`, steps.verificationStatusShouldBe)

	ctx.Step(`^I assign the verification response to myself$`, steps.assign)
	ctx.Step(`^I (start|call|retry) the verification response$`, steps.action)
	ctx.Step(`^I view the verification response$`, steps.view)
	ctx.Step(`^I enter institution data confirming the submission$`, steps.enterConfirming)
	ctx.Step(`^I enter institution data for student "([^"]*)"$`, steps.enterForStudent)

	ctx.Step(`^the institution reports "([^"]*)" by webhook with secret "([^"]*)"$`, steps.webhook)
}

type verificationSteps struct {
	tc          TestContext
	studentName string
}

func (s *verificationSteps) payload(institution, student string, consent bool) (map[string]any, error) {
	instID, ok := institutions[institution]
	if !ok {
		return nil, fmt.Errorf("unknown institution %q", institution)
	}
	return map[string]any{
		"institution_id":    instID,
		"student_name":      student,
		"date_of_birth":     dateOfBirth,
		"student_id":        studentID,
		"course_name":       courseName,
		"field_of_study":    fieldOfStudy,
		"degree_type":       degreeType,
		"classification":    classification,
		"graduation_year":   graduationYear,
		"consent_agreement": consent,
	}, nil
}

func (s *verificationSteps) send(payload map[string]any) error {
	return s.tc.Multipart("/verifications", payload,
		common.Upload{Field: "certificate", FileName: "certificate.pdf", ContentType: "application/pdf", Content: samplePDF},
		common.Upload{Field: "consent", FileName: "consent.pdf", ContentType: "application/pdf", Content: samplePDF},
	)
}

func (s *verificationSteps) submit(_ context.Context, institution, student string) error {
	payload, err := s.payload(institution, student, true)
	if err != nil {
		return err
	}
	if err := s.send(payload); err != nil {
		return err
	}
	if s.tc.LastStatus() == http.StatusCreated {
		vid, err := s.tc.FieldString("id")
		if err != nil {
			return err
		}
		s.tc.Remember("verification", vid)
		s.tc.Remember("submitter", s.tc.Current())
		s.studentName = student
	}
	return nil
}

func (s *verificationSteps) submitWithoutConsent(_ context.Context, institution string) error {
	payload, err := s.payload(institution, "No Consent", false)
	if err != nil {
		return err
	}
	return s.send(payload)
}

// verificationStatusShouldBe reads the request as its submitter.
func (s *verificationSteps) verificationStatusShouldBe(_ context.Context, want string) error {
	submitter, err := s.tc.Recall("submitter")
	if err != nil {
		return err
	}
	previous := s.tc.Current()
	if err := s.tc.SwitchTo(submitter); err != nil {
		return err
	}
	defer func() { _ = s.tc.SwitchTo(previous) }()

	if err := s.tc.JSON(http.MethodGet, "/verifications/{verification}", nil); err != nil {
		return err
	}
	if s.tc.LastStatus() != http.StatusOK {
		return fmt.Errorf("get verification returned %d: %s", s.tc.LastStatus(), s.tc.LastBody())
	}
	got, err := s.tc.FieldString("status")
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("expected verification status %q, got %q", want, got)
	}
	return nil
}

func (s *verificationSteps) assign(context.Context) error {
	return s.tc.JSON(http.MethodPost, "/verifications/{verification}/response/assign", map[string]string{
		"operator": s.tc.Current(),
	})
}

func (s *verificationSteps) action(_ context.Context, action string) error {
	return s.tc.JSON(http.MethodPost, "/verifications/{verification}/response/"+action, nil)
}

func (s *verificationSteps) view(context.Context) error {
	return s.tc.JSON(http.MethodGet, "/verifications/{verification}/response/", nil)
}

func (s *verificationSteps) institutionData(status, student string) map[string]any {
	return map[string]any{
		"status":          status,
		"student_name":    student,
		"student_id":      studentID,
		"date_of_birth":   dateOfBirth,
		"course_name":     courseName,
		"field_of_study":  fieldOfStudy,
		"degree_type":     degreeType,
		"classification":  classification,
		"graduation_year": graduationYear,
	}
}

func (s *verificationSteps) enterConfirming(ctx context.Context) error {
	return s.enterForStudent(ctx, s.studentName)
}

func (s *verificationSteps) enterForStudent(_ context.Context, student string) error {
	return s.tc.JSON(http.MethodPost, "/verifications/{verification}/response/entry", map[string]any{
		"data": s.institutionData("verified", student),
	})
}

func (s *verificationSteps) webhook(_ context.Context, status, secret string) error {
	data := map[string]any{"status": status}
	if status == "verified" {
		data = s.institutionData(status, s.studentName)
	}
	return s.tc.Webhook("/webhooks/institutions/{verification}", secret, map[string]any{
		"requestId":    "e2e-callback",
		"responseData": data,
	})
}
