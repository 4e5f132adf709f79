package common

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cucumber/godog"
)

// Upload is one file part of a multipart submission.
type Upload struct {
	Field       string
	FileName    string
	ContentType string
	Content     []byte
}

// TestContext is the slice of the shared context these steps need.
type TestContext interface {
	ActAs(name, role string) error
	Current() string
	SwitchTo(name string) error
	OwnerID(name string) (string, error)
	Remember(key, value string)
	JSON(method, path string, body any) error
	LastStatus() int
	LastBody() []byte
	FieldString(path string) (string, error)
}

// RegisterSteps registers actor, wallet and assertion steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^I am applicant "([^"]*)"$`, steps.iAmApplicant)
	ctx.Step(`^I am staff member "([^"]*)"$`, steps.iAmStaff)
	ctx.Step(`^"([^"]*)" has (\d+) credits in their wallet$`, steps.hasCredits)
	ctx.Step(`^my wallet balance should be (\d+)$`, steps.walletBalanceShouldBe)

	ctx.Step(`^the response status should be (\d+)$`, steps.responseStatusShouldBe)
	ctx.Step(`^the response error should be "([^"]*)"$`, steps.responseErrorShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, steps.responseFieldShouldBe)
	ctx.Step(`^I remember the response field "([^"]*)" as "([^"]*)"$`, steps.rememberField)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) iAmApplicant(_ context.Context, name string) error {
	return s.tc.ActAs(name, "applicant")
}

func (s *commonSteps) iAmStaff(_ context.Context, name string) error {
	return s.tc.ActAs(name, "staff")
}

// hasCredits tops the wallet up through the staff endpoint, then restores the
// previous actor.
func (s *commonSteps) hasCredits(_ context.Context, name string, amount int) error {
	previous := s.tc.Current()
	if err := s.tc.ActAs(name, "applicant"); err != nil {
		return err
	}
	ownerID, err := s.tc.OwnerID(name)
	if err != nil {
		return err
	}
	if err := s.tc.ActAs("wallet-admin", "staff"); err != nil {
		return err
	}
	err = s.tc.JSON(http.MethodPost, "/wallets/"+ownerID+"/credits", map[string]any{
		"amount":    amount,
		"reference": "e2e-topup-" + ownerID,
	})
	if err != nil {
		return err
	}
	if s.tc.LastStatus() != http.StatusCreated {
		return fmt.Errorf("wallet credit returned %d: %s", s.tc.LastStatus(), s.tc.LastBody())
	}
	if previous == "" {
		previous = name
	}
	return s.tc.SwitchTo(previous)
}

func (s *commonSteps) walletBalanceShouldBe(_ context.Context, want int) error {
	if err := s.tc.JSON(http.MethodGet, "/wallet", nil); err != nil {
		return err
	}
	if err := s.responseStatusShouldBe(context.Background(), http.StatusOK); err != nil {
		return err
	}
	return s.responseFieldShouldBe(context.Background(), "balance", fmt.Sprint(want))
}

func (s *commonSteps) responseStatusShouldBe(_ context.Context, want int) error {
	if got := s.tc.LastStatus(); got != want {
		return fmt.Errorf("expected status %d, got %d: %s", want, got, s.tc.LastBody())
	}
	return nil
}

func (s *commonSteps) responseErrorShouldBe(_ context.Context, want string) error {
	return s.responseFieldShouldBe(context.Background(), "error", want)
}

func (s *commonSteps) responseFieldShouldBe(_ context.Context, path, want string) error {
	got, err := s.tc.FieldString(path)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("expected %s to be %q, got %q", path, want, got)
	}
	return nil
}

func (s *commonSteps) rememberField(_ context.Context, path, key string) error {
	v, err := s.tc.FieldString(path)
	if err != nil {
		return err
	}
	s.tc.Remember(key, v)
	return nil
}
