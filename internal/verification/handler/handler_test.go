package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"credverify/internal/verification/handler/mocks"
	"credverify/internal/verification/models"
	"credverify/internal/verification/service"
	id "credverify/pkg/domain"
	dErrors "credverify/pkg/domain-errors"
	"credverify/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	router  chi.Router
	owner   id.OwnerID
	vid     id.VerificationID
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	s.owner = id.OwnerID(uuid.New())
	s.vid = id.VerificationID(uuid.New())

	h := New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.Register(r)
	h.RegisterStaff(r)
	h.RegisterWebhooks(r)
	s.router = r
}

func validPayload() map[string]any {
	return map[string]any{
		"institution_id":    uuid.NewString(),
		"student_name":      "Ada Lovelace",
		"date_of_birth":     "2000-05-14",
		"email":             "ada@example.com",
		"student_id":        "S1234567",
		"course_name":       "Computer Science",
		"degree_type":       "BSc",
		"classification":    "First Class Honours",
		"graduation_year":   2022,
		"consent_agreement": true,
	}
}

func (s *HandlerSuite) multipartRequest(payload map[string]any, parts ...testutil.Part) *http.Request {
	var body any
	if payload != nil {
		body = payload
	}
	req := testutil.NewMultipartRequest(s.T(), http.MethodPost, "/verifications", body, parts...)
	return testutil.AsApplicant(req, s.owner)
}

func documents() []testutil.Part {
	return []testutil.Part{
		testutil.PDF("certificate", "degree.pdf", "%PDF-cert"),
		testutil.PDF("consent", "consent.pdf", "%PDF-consent"),
	}
}

// =============================================================================
// Create
// =============================================================================

func (s *HandlerSuite) TestCreate() {
	s.Run("passes applicant data and both documents to the service", func() {
		payload := validPayload()
		s.service.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, sub service.Submission) (*models.VerificationRequest, error) {
				s.Equal(payload["institution_id"], sub.InstitutionID.String())
				s.Equal("Ada Lovelace", sub.Applicant.StudentName)
				s.Equal(time.Date(2000, 5, 14, 0, 0, 0, 0, time.UTC), sub.Applicant.DateOfBirth)
				s.True(sub.ConsentAgreement)
				s.Require().NotNil(sub.Certificate)
				s.Require().NotNil(sub.Consent)
				s.Equal("degree.pdf", sub.Certificate.FileName)
				s.Equal("application/pdf", sub.Consent.ContentType)
				body, err := io.ReadAll(sub.Certificate.Body)
				s.Require().NoError(err)
				s.Equal("%PDF-cert", string(body))
				return &models.VerificationRequest{
					ID:        s.vid,
					Reference: "VR-20260314-7K2M9QXD",
					Status:    models.RequestStatusProcessing,
				}, nil
			})

		rr := testutil.DoRequest(s.router, s.multipartRequest(payload, documents()...))

		s.Equal(http.StatusCreated, rr.Code)
		got := testutil.UnmarshalResponse[models.VerificationRequest](s.T(), rr)
		s.Equal("VR-20260314-7K2M9QXD", got.Reference)
		s.Equal(models.RequestStatusProcessing, got.Status)
	})

	s.Run("maps insufficient funds to 402", func() {
		s.service.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeInsufficientFunds, "wallet balance is lower than the institution fee"))

		rr := testutil.DoRequest(s.router, s.multipartRequest(validPayload(), documents()...))

		testutil.AssertStatusAndError(s.T(), rr, dErrors.HTTPStatus(dErrors.CodeInsufficientFunds), "insufficient_funds")
	})
}

func (s *HandlerSuite) TestCreateRejectsBadSubmissions() {
	missingName := validPayload()
	delete(missingName, "student_name")
	noConsent := validPayload()
	noConsent["consent_agreement"] = false
	badDate := validPayload()
	badDate["date_of_birth"] = "14/05/2000"

	cases := []struct {
		name    string
		payload map[string]any
		parts   []testutil.Part
		status  int
		code    string
	}{
		{"missing payload", nil, documents(), http.StatusBadRequest, "bad_request"},
		{"missing student name", missingName, documents(), http.StatusBadRequest, "validation_error"},
		{"consent not accepted", noConsent, documents(), http.StatusBadRequest, "validation_error"},
		{"malformed date of birth", badDate, documents(), http.StatusBadRequest, "validation_error"},
		{"missing consent document", validPayload(), documents()[:1], http.StatusBadRequest, "validation_error"},
		{
			"unsupported document type",
			validPayload(),
			[]testutil.Part{
				{Field: "certificate", FileName: "degree.exe", ContentType: "application/x-msdownload", Body: "MZ"},
				testutil.PDF("consent", "consent.pdf", "%PDF"),
			},
			http.StatusBadRequest,
			"validation_error",
		},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			rr := testutil.DoRequest(s.router, s.multipartRequest(tc.payload, tc.parts...))
			s.Equal(tc.status, rr.Code)
			testutil.AssertErrorCode(s.T(), rr, tc.code)
		})
	}
}

func (s *HandlerSuite) TestCreateRejectsNonMultipart() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/verifications", validPayload())
	rr := testutil.DoRequest(s.router, testutil.AsApplicant(req, s.owner))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
}

func (s *HandlerSuite) TestCreateEnforcesUploadCap() {
	h := New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil)), WithMaxUploadBytes(1024))
	r := chi.NewRouter()
	h.Register(r)

	big := testutil.PDF("certificate", "degree.pdf", "%PDF-"+strings.Repeat("x", 4096))
	req := testutil.NewMultipartRequest(s.T(), http.MethodPost, "/verifications", validPayload(),
		big, testutil.PDF("consent", "consent.pdf", "%PDF-consent"))
	rr := testutil.DoRequest(r, testutil.AsApplicant(req, s.owner))

	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
}

// =============================================================================
// Queries
// =============================================================================

func (s *HandlerSuite) TestList() {
	s.service.EXPECT().ListByOwner(gomock.Any(), s.owner).Return([]*models.VerificationRequest{
		{ID: s.vid, Reference: "VR-20260314-7K2M9QXD"},
	}, nil)

	req := testutil.AsApplicant(testutil.NewRequest(s.T(), http.MethodGet, "/verifications"), s.owner)
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusOK(s.T(), rr)
	body := testutil.UnmarshalResponse[struct {
		Verifications []models.VerificationRequest `json:"verifications"`
	}](s.T(), rr)
	s.Len(body.Verifications, 1)
}

func (s *HandlerSuite) TestListRequiresOwner() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/verifications"))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")
}

func (s *HandlerSuite) TestGet() {
	s.Run("invalid id", func() {
		req := testutil.AsApplicant(testutil.NewRequest(s.T(), http.MethodGet, "/verifications/not-a-uuid"), s.owner)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
	})

	s.Run("not found", func() {
		s.service.EXPECT().Get(gomock.Any(), s.vid).Return(nil, dErrors.New(dErrors.CodeNotFound, "verification not found"))
		req := testutil.AsApplicant(testutil.NewRequest(s.T(), http.MethodGet, "/verifications/"+s.vid.String()), s.owner)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})

	s.Run("found", func() {
		s.service.EXPECT().Get(gomock.Any(), s.vid).Return(&models.VerificationRequest{ID: s.vid, Status: models.RequestStatusCompleted}, nil)
		req := testutil.AsApplicant(testutil.NewRequest(s.T(), http.MethodGet, "/verifications/"+s.vid.String()), s.owner)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "status", "completed")
	})
}

// =============================================================================
// Response workflow
// =============================================================================

func (s *HandlerSuite) staffRequest(method, path string, body any) *http.Request {
	var req *http.Request
	if body == nil {
		req = testutil.NewRequest(s.T(), method, path)
	} else {
		req = testutil.NewJSONRequest(s.T(), method, path, body)
	}
	return testutil.AsStaff(req, id.OwnerID(uuid.New()))
}

func (s *HandlerSuite) responsePath(action string) string {
	return "/verifications/" + s.vid.String() + "/response" + action
}

func (s *HandlerSuite) TestAssign() {
	s.Run("requires operator", func() {
		rr := testutil.DoRequest(s.router, s.staffRequest(http.MethodPost, s.responsePath("/assign"), map[string]string{}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})

	s.Run("assigns", func() {
		s.service.EXPECT().Assign(gomock.Any(), s.vid, "operator-7").
			Return(&models.InstitutionResponse{Status: models.ResponseStatusPending}, nil)
		rr := testutil.DoRequest(s.router, s.staffRequest(http.MethodPost, s.responsePath("/assign"), map[string]string{"operator": "operator-7"}))
		testutil.AssertStatusOK(s.T(), rr)
	})
}

func (s *HandlerSuite) TestStartWithoutBodyUsesCaller() {
	s.service.EXPECT().StartManualEntry(gomock.Any(), s.vid, "").
		Return(&models.InstitutionResponse{Status: models.ResponseStatusProcessing}, nil)

	rr := testutil.DoRequest(s.router, s.staffRequest(http.MethodPost, s.responsePath("/start"), nil))

	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "status", "processing")
}

func (s *HandlerSuite) TestEntry() {
	s.Run("requires institution status", func() {
		rr := testutil.DoRequest(s.router, s.staffRequest(http.MethodPost, s.responsePath("/entry"), map[string]any{"data": map[string]any{}}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})

	s.Run("conflict when not started", func() {
		s.service.EXPECT().SubmitManualEntry(gomock.Any(), s.vid, models.ResponseData{Status: "verified", StudentID: "S1"}).
			Return(nil, dErrors.New(dErrors.CodeConflict, "manual entry must be started before it is submitted"))
		body := map[string]any{"data": map[string]any{"status": "verified", "student_id": "S1"}}
		rr := testutil.DoRequest(s.router, s.staffRequest(http.MethodPost, s.responsePath("/entry"), body))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")
	})
}

func (s *HandlerSuite) TestCallAndRetry() {
	s.service.EXPECT().CallInstitution(gomock.Any(), s.vid).
		Return(&models.InstitutionResponse{Status: models.ResponseStatusFailed, Attempts: 1}, nil)
	s.service.EXPECT().Retry(gomock.Any(), s.vid).
		Return(nil, dErrors.New(dErrors.CodeConflict, "retry ceiling reached"))

	rr := testutil.DoRequest(s.router, s.staffRequest(http.MethodPost, s.responsePath("/call"), nil))
	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "status", "failed")

	rr = testutil.DoRequest(s.router, s.staffRequest(http.MethodPost, s.responsePath("/retry"), nil))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")
}

func (s *HandlerSuite) TestGetResponse() {
	s.service.EXPECT().GetResponse(gomock.Any(), s.vid).
		Return(&models.InstitutionResponse{Status: models.ResponseStatusCompleted, IsVerified: true}, nil)

	rr := testutil.DoRequest(s.router, s.staffRequest(http.MethodGet, s.responsePath(""), nil))

	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "status", "completed")
}

// =============================================================================
// Webhooks
// =============================================================================

func (s *HandlerSuite) webhookRequest(secret, body string) *http.Request {
	req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/webhooks/institutions/"+s.vid.String(), body)
	if secret != "" {
		req.Header.Set(WebhookSecretHeader, secret)
	}
	return req
}

func (s *HandlerSuite) TestWebhook() {
	s.Run("missing secret", func() {
		rr := testutil.DoRequest(s.router, s.webhookRequest("", `{"responseData":{"status":"verified"}}`))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")
	})

	s.Run("malformed body", func() {
		rr := testutil.DoRequest(s.router, s.webhookRequest("hook-secret", `{"responseData":`))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})

	s.Run("forwards secret and payload", func() {
		s.service.EXPECT().HandleWebhook(gomock.Any(), s.vid, "hook-secret", gomock.Any()).DoAndReturn(
			func(_ context.Context, _ id.VerificationID, _ string, p service.WebhookPayload) (*models.InstitutionResponse, error) {
				s.Equal("inst-55", p.RequestID)
				s.Require().NotNil(p.ResponseData)
				s.Equal("verified", p.ResponseData.Status)
				s.Equal("S1234567", p.ResponseData.StudentID)
				return &models.InstitutionResponse{Status: models.ResponseStatusCompleted}, nil
			})
		body := `{"requestId":"inst-55","responseData":{"status":"verified","student_id":"S1234567"}}`
		rr := testutil.DoRequest(s.router, s.webhookRequest("hook-secret", body))
		testutil.AssertStatusOK(s.T(), rr)
	})

	s.Run("replay conflicts", func() {
		s.service.EXPECT().HandleWebhook(gomock.Any(), s.vid, "hook-secret", gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeConflict, "response is completed and cannot accept a webhook"))
		rr := testutil.DoRequest(s.router, s.webhookRequest("hook-secret", `{"responseData":{"status":"verified"}}`))
		s.Equal(http.StatusConflict, rr.Code)
		errResp := testutil.UnmarshalErrorResponse(s.T(), rr)
		s.Equal("conflict", errResp.Error)
		s.Contains(errResp.ErrorDescription, "cannot accept a webhook")
	})
}
