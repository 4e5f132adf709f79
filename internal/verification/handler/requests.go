package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"credverify/internal/verification/models"
	"credverify/internal/verification/service"
	id "credverify/pkg/domain"
	dErrors "credverify/pkg/domain-errors"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// CreateRequest is the JSON `payload` part of a multipart submission.
type CreateRequest struct {
	InstitutionID    string `json:"institution_id" validate:"required,uuid"`
	StudentName      string `json:"student_name" validate:"required,max=200"`
	MaidenName       string `json:"maiden_name,omitempty" validate:"max=200"`
	DateOfBirth      string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Email            string `json:"email,omitempty" validate:"omitempty,email"`
	StudentID        string `json:"student_id" validate:"required,max=64"`
	CourseName       string `json:"course_name" validate:"required,max=200"`
	FieldOfStudy     string `json:"field_of_study,omitempty" validate:"max=200"`
	DegreeType       string `json:"degree_type" validate:"required,max=64"`
	Classification   string `json:"classification,omitempty" validate:"max=100"`
	GraduationYear   int    `json:"graduation_year" validate:"required"`
	ConsentAgreement bool   `json:"consent_agreement"`
}

func (r *CreateRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationError(err)
	}
	if !r.ConsentAgreement {
		return dErrors.New(dErrors.CodeValidation, "consent_agreement must be accepted")
	}
	return nil
}

// Submission converts the payload into a service submission without
// documents. Validate must succeed first.
func (r *CreateRequest) Submission() (service.Submission, error) {
	instID, err := id.ParseInstitutionID(r.InstitutionID)
	if err != nil {
		return service.Submission{}, err
	}
	dob, err := time.Parse(time.DateOnly, r.DateOfBirth)
	if err != nil {
		return service.Submission{}, dErrors.New(dErrors.CodeValidation, "date_of_birth must be YYYY-MM-DD")
	}
	return service.Submission{
		InstitutionID: instID,
		Applicant: models.Applicant{
			StudentName:    strings.TrimSpace(r.StudentName),
			MaidenName:     strings.TrimSpace(r.MaidenName),
			DateOfBirth:    dob,
			Email:          strings.TrimSpace(r.Email),
			StudentID:      strings.TrimSpace(r.StudentID),
			CourseName:     strings.TrimSpace(r.CourseName),
			FieldOfStudy:   strings.TrimSpace(r.FieldOfStudy),
			DegreeType:     strings.TrimSpace(r.DegreeType),
			Classification: strings.TrimSpace(r.Classification),
			GraduationYear: r.GraduationYear,
		},
		ConsentAgreement: r.ConsentAgreement,
	}, nil
}

type AssignRequest struct {
	Operator string `json:"operator" validate:"required,max=128"`
}

func (r *AssignRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationError(err)
	}
	return nil
}

type StartRequest struct {
	Operator string `json:"operator,omitempty" validate:"max=128"`
}

func (r *StartRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationError(err)
	}
	return nil
}

// EntryRequest is institution data keyed in by an operator.
type EntryRequest struct {
	Data models.ResponseData `json:"data"`
}

func (r *EntryRequest) Validate() error {
	if r.Data.Status == "" {
		return dErrors.New(dErrors.CodeValidation, "data.status is required")
	}
	return nil
}

// validationError flattens validator field errors into one validation
// message.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid request")
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email address", fe.Field()))
		case "datetime":
			msgs = append(msgs, fmt.Sprintf("%s must be YYYY-MM-DD", fe.Field()))
		case "uuid":
			msgs = append(msgs, fmt.Sprintf("%s must be a UUID", fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return dErrors.New(dErrors.CodeValidation, strings.Join(msgs, ", "))
}
