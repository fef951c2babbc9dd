package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckLoginLimit_EmptyState(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	info, err := svc.CheckLoginLimit(context.Background(), "fresh@example.com")
	require.NoError(t, err)
	require.False(t, info.IsLimited)
	require.Equal(t, 3, info.MaxAttempts)
	require.Equal(t, 3, info.RemainingAttempts)
	require.Equal(t, int64(60), info.TimeWindow)
	require.Nil(t, info.TimeUntilReset)
}

func TestCheckLoginLimit_AfterFailures(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	ctx := context.Background()

	require.NoError(t, svc.recordLoginFailure(ctx, "u@example.com"))
	require.NoError(t, svc.recordLoginFailure(ctx, "u@example.com"))

	info, err := svc.CheckLoginLimit(ctx, "u@example.com")
	require.NoError(t, err)
	require.False(t, info.IsLimited)
	require.Equal(t, 1, info.RemainingAttempts)
	// Пока лимит не исчерпан, срок сброса не отдаётся.
	require.Nil(t, info.TimeUntilReset)
}

// TestCheckLoginLimit_RemainingNeverNegative — счётчик может перерасти лимит,
// но remaining не уходит ниже нуля.
func TestCheckLoginLimit_RemainingNeverNegative(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.recordLoginFailure(ctx, "u@example.com"))
	}

	info, err := svc.CheckLoginLimit(ctx, "u@example.com")
	require.NoError(t, err)
	require.True(t, info.IsLimited)
	require.Equal(t, 0, info.RemainingAttempts)
}

// TestLimiterKey_IdentityNormalized — регистр и пробелы identity не влияют на ключ.
func TestLimiterKey_IdentityNormalized(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	ctx := context.Background()

	require.NoError(t, svc.recordLoginFailure(ctx, "User@Example.com"))

	info, err := svc.CheckLoginLimit(ctx, "  user@example.com ")
	require.NoError(t, err)
	require.Equal(t, 2, info.RemainingAttempts)
}

func TestRecordLoginSuccess_PolicyOff(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	svc.rate.SuccessClears = false
	ctx := context.Background()

	require.NoError(t, svc.recordLoginFailure(ctx, "u@example.com"))
	require.NoError(t, svc.recordLoginSuccess(ctx, "u@example.com"))

	// Счётчик не сброшен: политика выключена.
	info, err := svc.CheckLoginLimit(ctx, "u@example.com")
	require.NoError(t, err)
	require.Equal(t, 2, info.RemainingAttempts)
}
