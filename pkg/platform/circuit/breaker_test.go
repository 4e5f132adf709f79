package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newBreaker(opts ...Option) (*Breaker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
	opts = append([]Option{WithCooldown(time.Minute), withClock(clock.now)}, opts...)
	return New("institution:test", opts...), clock
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	b, _ := newBreaker(WithFailureThreshold(3))

	assert.False(t, b.RecordFailure().Opened)
	assert.False(t, b.RecordFailure().Opened)
	assert.True(t, b.RecordFailure().Opened)
	assert.Equal(t, StateOpen, b.State())
	assert.False(t, b.Allow())

	assert.False(t, b.RecordFailure().Opened, "already open")
}

func TestBreakerSuccessResetsFailureRun(t *testing.T) {
	b, _ := newBreaker(WithFailureThreshold(3))

	b.RecordFailure()
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	b.RecordFailure()
	assert.Equal(t, StateClosed, b.State())

	b.RecordFailure()
	assert.Equal(t, StateOpen, b.State())
}

func TestBreakerAdmitsOneProbeAfterCooldown(t *testing.T) {
	b, clock := newBreaker(WithFailureThreshold(1))
	b.RecordFailure()

	clock.advance(59 * time.Second)
	assert.False(t, b.Allow(), "still cooling down")

	clock.advance(time.Second)
	require.True(t, b.Allow())
	assert.Equal(t, StateHalfOpen, b.State())
	assert.Equal(t, "half_open", b.State().String())
	assert.False(t, b.Allow(), "probe already in flight")
}

func TestBreakerProbeOutcomes(t *testing.T) {
	tests := []struct {
		name      string
		successes int
		outcome   func(b *Breaker) StateChange
		want      State
		change    StateChange
		allowNext bool
	}{
		{
			name:      "successful probe closes",
			successes: 1,
			outcome:   (*Breaker).RecordSuccess,
			want:      StateClosed,
			change:    StateChange{Closed: true},
			allowNext: true,
		},
		{
			name:      "failed probe reopens and restarts the cooldown",
			successes: 1,
			outcome:   (*Breaker).RecordFailure,
			want:      StateOpen,
			change:    StateChange{Opened: true},
			allowNext: false,
		},
		{
			name:      "probe success short of the threshold frees the slot",
			successes: 2,
			outcome:   (*Breaker).RecordSuccess,
			want:      StateHalfOpen,
			allowNext: true,
		},
		{
			name:      "released probe frees the slot",
			successes: 1,
			outcome: func(b *Breaker) StateChange {
				b.Release()
				return StateChange{}
			},
			want:      StateHalfOpen,
			allowNext: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, clock := newBreaker(WithFailureThreshold(1), WithSuccessThreshold(tt.successes))
			b.RecordFailure()
			clock.advance(time.Minute)
			require.True(t, b.Allow())

			assert.Equal(t, tt.change, tt.outcome(b))
			assert.Equal(t, tt.want, b.State())
			assert.Equal(t, tt.allowNext, b.Allow())
		})
	}
}

func TestBreakerNeedsConsecutiveProbeSuccesses(t *testing.T) {
	b, clock := newBreaker(WithFailureThreshold(1), WithSuccessThreshold(2))
	b.RecordFailure()
	clock.advance(time.Minute)

	require.True(t, b.Allow())
	b.RecordSuccess()
	require.True(t, b.Allow())
	b.RecordFailure()
	assert.Equal(t, StateOpen, b.State())

	clock.advance(time.Minute)
	require.True(t, b.Allow())
	assert.False(t, b.RecordSuccess().Closed)
	require.True(t, b.Allow())
	assert.True(t, b.RecordSuccess().Closed)
}
