package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

type fakeSES struct {
	inputs []*sesv2.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.inputs = append(f.inputs, in)
	return &sesv2.SendEmailOutput{}, f.err
}

func TestSESSink(t *testing.T) {
	t.Run("sends templated email", func(t *testing.T) {
		fake := &fakeSES{}
		sink := NewSESSink(fake, "noreply@credverify.example")
		n := notification("VR-20260101-ABCDEFGH")
		n.Recipient = "jane.doe@example.com"

		require.NoError(t, sink.Send(context.Background(), n))
		require.Len(t, fake.inputs, 1)
		in := fake.inputs[0]
		assert.Equal(t, "noreply@credverify.example", aws.ToString(in.FromEmailAddress))
		assert.Equal(t, []string{"jane.doe@example.com"}, in.Destination.ToAddresses)
		assert.Contains(t, aws.ToString(in.Content.Simple.Subject.Data), "VR-20260101-ABCDEFGH")
		assert.Contains(t, aws.ToString(in.Content.Simple.Body.Text.Data), "Dear Jane,")
	})

	t.Run("skips notifications without recipient", func(t *testing.T) {
		fake := &fakeSES{}
		require.NoError(t, NewSESSink(fake, "noreply@x").Send(context.Background(), notification("VR")))
		assert.Empty(t, fake.inputs)
	})

	t.Run("masks recipient in errors", func(t *testing.T) {
		fake := &fakeSES{err: errors.New("throttled")}
		n := notification("VR")
		n.Recipient = "jane@example.com"
		err := NewSESSink(fake, "noreply@x").Send(context.Background(), n)
		require.Error(t, err)
		assert.NotContains(t, err.Error(), "jane@")
	})

	t.Run("unknown event type", func(t *testing.T) {
		n := notification("VR")
		n.Type = "other"
		n.Recipient = "jane@example.com"
		assert.ErrorIs(t, NewSESSink(&fakeSES{}, "x").Send(context.Background(), n), errUnknownEvent)
	})
}

type fakeProducer struct {
	records []*kgo.Record
	err     error
}

func (f *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	var out kgo.ProduceResults
	for _, r := range rs {
		f.records = append(f.records, r)
		out = append(out, kgo.ProduceResult{Record: r, Err: f.err})
	}
	return out
}

func TestKafkaSink(t *testing.T) {
	producer := &fakeProducer{}
	sink := NewKafkaSink(producer, "verification-events")
	n := notification("VR-20260101-ABCDEFGH")
	n.Recipient = "jane@example.com"

	require.NoError(t, sink.Send(context.Background(), n))
	require.Len(t, producer.records, 1)
	rec := producer.records[0]
	assert.Equal(t, "verification-events", rec.Topic)
	assert.Equal(t, n.VerificationID.String(), string(rec.Key))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Value, &decoded))
	assert.Equal(t, "VR-20260101-ABCDEFGH", decoded["reference"])
	assert.NotContains(t, decoded, "recipient", "contact details stay off the event stream")

	producer.err = errors.New("broker unavailable")
	assert.ErrorContains(t, sink.Send(context.Background(), n), "broker unavailable")
}
