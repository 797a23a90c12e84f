package camunda

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "fiscal-forum/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient() *Client {
	return &Client{config: &ClientConfig{
		RetryConfig: &RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond},
	}}
}

func TestExecuteWithRetry_RetriesTransientErrors(t *testing.T) {
	attempts := 0
	result, err := testClient().ExecuteWithRetry(context.Background(), func(ctx context.Context) (interface{}, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("rpc error: code = Unavailable desc = connection refused")
		}
		return int64(42), nil
	}, "create-instance")

	require.NoError(t, err)
	assert.Equal(t, int64(42), result)
	assert.Equal(t, 3, attempts)
}

func TestExecuteWithRetry_StopsOnPermanentError(t *testing.T) {
	attempts := 0
	_, err := testClient().ExecuteWithRetry(context.Background(), func(ctx context.Context) (interface{}, error) {
		attempts++
		return nil, errors.New("rpc error: code = NotFound desc = process lead-intake not found")
	}, "create-instance")

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, apperrors.ErrCodeResourceNotFound, apperrors.AsStandardError(err).Code)
}

func TestExecuteWithRetry_GivesUpAfterMaxRetries(t *testing.T) {
	attempts := 0
	_, err := testClient().ExecuteWithRetry(context.Background(), func(ctx context.Context) (interface{}, error) {
		attempts++
		return nil, errors.New("context deadline exceeded")
	}, "create-instance")

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, apperrors.ErrCodeTimeout, apperrors.AsStandardError(err).Code)
}

func TestExecuteWithRetry_HonoursCancellation(t *testing.T) {
	c := &Client{config: &ClientConfig{RetryConfig: &RetryConfig{MaxRetries: 5, BaseDelay: time.Second, MaxDelay: time.Second}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ExecuteWithRetry(ctx, func(ctx context.Context) (interface{}, error) {
		return nil, errors.New("unavailable")
	}, "create-instance")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackoff(t *testing.T) {
	rc := &RetryConfig{BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second}
	assert.Equal(t, 100*time.Millisecond, Backoff(rc, 0))
	assert.Equal(t, 400*time.Millisecond, Backoff(rc, 2))
	assert.Equal(t, time.Second, Backoff(rc, 10))
}

func TestMapError(t *testing.T) {
	tests := []struct {
		msg  string
		code apperrors.ErrorCode
	}{
		{"connection refused", apperrors.ErrCodeExternalService},
		{"deadline exceeded", apperrors.ErrCodeTimeout},
		{"process not found", apperrors.ErrCodeResourceNotFound},
		{"permission denied", apperrors.ErrCodeAuthentication},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			err := MapError(errors.New(tt.msg), "op", 0)
			assert.Equal(t, tt.code, apperrors.AsStandardError(err).Code)
		})
	}
}
