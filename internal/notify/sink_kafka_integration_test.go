//go:build integration

package notify_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"credverify/internal/notify"
	id "credverify/pkg/domain"
	"credverify/pkg/testutil/containers"
)

func TestKafkaSinkAgainstRedpanda(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	rp := containers.GetManager().GetRedpanda(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	topic := "verification-events-" + uuid.NewString()[:8]
	producer, err := notify.NewKafkaClient([]string{rp.Broker}, topic)
	require.NoError(t, err)
	defer producer.Close()
	require.NoError(t, notify.EnsureTopic(ctx, producer, topic, 1, 1))
	require.NoError(t, notify.EnsureTopic(ctx, producer, topic, 1, 1), "existing topic is not an error")

	n := notify.Notification{
		Type:           notify.EventVerificationCreated,
		VerificationID: id.VerificationID(uuid.New()),
		Reference:      "VR-20260101-ABCDEFGH",
		OwnerID:        id.OwnerID(uuid.New()),
		Status:         "processing",
	}
	require.NoError(t, notify.NewKafkaSink(producer, topic).Send(ctx, n))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rp.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.Empty(t, fetches.Errors())
	var got []*kgo.Record
	fetches.EachRecord(func(r *kgo.Record) { got = append(got, r) })
	require.Len(t, got, 1)
	require.Equal(t, n.VerificationID.String(), string(got[0].Key))
}
