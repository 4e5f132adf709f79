package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"credverify/pkg/email"
)

// SESAPI is the subset of the SES v2 client the sink uses.
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESSink emails the applicant. Notifications without a recipient are
// skipped.
type SESSink struct {
	client SESAPI
	sender string
}

func NewSESSink(client SESAPI, sender string) *SESSink {
	return &SESSink{client: client, sender: sender}
}

// NewSESClient builds an SES v2 client from the default AWS credential chain.
func NewSESClient(ctx context.Context, region string) (*sesv2.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return sesv2.NewFromConfig(cfg), nil
}

func (s *SESSink) Name() string { return "ses" }

func (s *SESSink) Send(ctx context.Context, n Notification) error {
	if strings.TrimSpace(n.Recipient) == "" {
		return nil
	}
	subject, body, err := compose(n)
	if err != nil {
		return err
	}
	_, err = s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.sender),
		Destination:      &types.Destination{ToAddresses: []string{n.Recipient}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body), Charset: aws.String("UTF-8")},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send to %s: %w", email.Mask(n.Recipient), err)
	}
	return nil
}

var errUnknownEvent = errors.New("no email template for event")

func compose(n Notification) (subject, body string, err error) {
	greeting := "Dear " + email.GreetingName(n.Recipient) + ",\n\n"
	switch n.Type {
	case EventVerificationCreated:
		subject = "Verification " + n.Reference + " received"
		body = greeting + "We have received your verification request " + n.Reference +
			" and the fee has been charged to your wallet. We will let you know when it is complete.\n"
	case EventVerificationCompleted:
		subject = "Verification " + n.Reference + " completed"
		body = greeting + "Your verification request " + n.Reference + " has been completed.\n"
	case EventVerificationRequiresReview:
		subject = "Verification " + n.Reference + " is under review"
		body = greeting + "Your verification request " + n.Reference +
			" needs a manual review by our team. No action is needed from you.\n"
	case EventVerificationFailed:
		subject = "Verification " + n.Reference + " could not be completed"
		body = greeting + "We could not complete verification request " + n.Reference +
			". Please contact support and quote this reference.\n"
	default:
		return "", "", fmt.Errorf("%w: %s", errUnknownEvent, n.Type)
	}
	return subject, body, nil
}
