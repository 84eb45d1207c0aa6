// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateValid(t *testing.T) {
	s := New(func() {}, zerolog.Nop())
	require.NoError(t, s.Update("0 7 * * 1-5", "Europe/Berlin"))

	// Thursday 2026-01-15 08:00 Berlin is past the 07:00 run.
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	next := s.NextAfter(time.Date(2026, 1, 15, 8, 0, 0, 0, loc))
	assert.True(t, time.Date(2026, 1, 16, 7, 0, 0, 0, loc).Equal(next), next)

	// Friday evening rolls over to Monday.
	next = s.NextAfter(time.Date(2026, 1, 16, 20, 0, 0, 0, loc))
	assert.True(t, time.Date(2026, 1, 19, 7, 0, 0, 0, loc).Equal(next), next)
}

func TestUpdateReplacesSchedule(t *testing.T) {
	s := New(func() {}, zerolog.Nop())
	require.NoError(t, s.Update("0 7 * * *", "UTC"))
	require.NoError(t, s.Update("30 18 * * *", "UTC"))

	next := s.NextAfter(time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC))
	assert.True(t, time.Date(2026, 1, 15, 18, 30, 0, 0, time.UTC).Equal(next), next)
	assert.Len(t, s.cron.Entries(), 1)
}

func TestUpdateInvalid(t *testing.T) {
	s := New(func() {}, zerolog.Nop())
	assert.Error(t, s.Update("61 * * * *", "UTC"))
	assert.Error(t, s.Update("0 7 * * *", "Invalid/Timezone"))
	assert.True(t, s.Next().IsZero())
}

func TestRunStopsOnCancel(t *testing.T) {
	s := New(func() {}, zerolog.Nop())
	require.NoError(t, s.Update("0 7 * * *", ""))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunWithoutSchedule(t *testing.T) {
	s := New(func() {}, zerolog.Nop())
	assert.Error(t, s.Run(context.Background()))
}
