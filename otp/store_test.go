package otp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_IssueAndVerify(t *testing.T) {
	s := NewStore()

	ch, err := s.Issue("+84912345678")
	require.NoError(t, err)
	assert.Len(t, ch.Code, 6)
	assert.Equal(t, "+84912345678", ch.Phone)

	verified, err := s.Verify(ch.ID, ch.Code)
	require.NoError(t, err)
	assert.True(t, verified.Verified)

	consumed, err := s.Consume(ch.ID)
	require.NoError(t, err)
	assert.Equal(t, ch.ID, consumed.ID)

	// Consumed challenges are gone
	_, err = s.Consume(ch.ID)
	assert.ErrorIs(t, err, ErrChallengeNotFound)
}

func TestStore_WrongCodeCountsAttempts(t *testing.T) {
	s := NewStore()

	ch, err := s.Issue("+84912345678")
	require.NoError(t, err)

	wrong := "000000"
	if ch.Code == wrong {
		wrong = "000001"
	}

	for i := 0; i < maxAttempts-1; i++ {
		_, err := s.Verify(ch.ID, wrong)
		assert.ErrorIs(t, err, ErrCodeMismatch)
	}

	// Final wrong attempt consumes the challenge
	_, err = s.Verify(ch.ID, wrong)
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	_, err = s.Verify(ch.ID, ch.Code)
	assert.ErrorIs(t, err, ErrChallengeNotFound)
}

func TestStore_ConsumeRequiresVerification(t *testing.T) {
	s := NewStore()

	ch, err := s.Issue("+84912345678")
	require.NoError(t, err)

	_, err = s.Consume(ch.ID)
	assert.ErrorIs(t, err, ErrNotVerified)
}

func TestStore_ResendInsideWindowRefused(t *testing.T) {
	s := NewStore()

	ch, err := s.Issue("+84912345678")
	require.NoError(t, err)

	_, wait, err := s.Resend(ch.ID)
	assert.ErrorIs(t, err, ErrResendTooSoon)
	assert.Greater(t, wait, time.Duration(0))
}

func TestStore_ResendAfterWindowRotatesCode(t *testing.T) {
	s := NewStore()

	ch, err := s.Issue("+84912345678")
	require.NoError(t, err)

	// Age the challenge past the resend window
	s.mu.Lock()
	s.challenges[ch.ID].LastSentAt = time.Now().Add(-resendWindow - time.Second)
	s.mu.Unlock()

	rotated, wait, err := s.Resend(ch.ID)
	require.NoError(t, err)
	assert.Zero(t, wait)
	assert.Equal(t, ch.Phone, rotated.Phone)
	assert.Zero(t, rotated.Attempts)
}

func TestStore_NewIssueReplacesOpenChallengeForPhone(t *testing.T) {
	s := NewStore()

	first, err := s.Issue("+84912345678")
	require.NoError(t, err)

	second, err := s.Issue("+84912345678")
	require.NoError(t, err)

	assert.Nil(t, s.Get(first.ID))
	assert.NotNil(t, s.Get(second.ID))
}

func TestStore_ExpiredChallengeNotFound(t *testing.T) {
	s := NewStore()

	ch, err := s.Issue("+84912345678")
	require.NoError(t, err)

	s.mu.Lock()
	s.challenges[ch.ID].ExpiresAt = time.Now().Add(-time.Second)
	s.mu.Unlock()

	_, err = s.Verify(ch.ID, ch.Code)
	assert.ErrorIs(t, err, ErrChallengeNotFound)

	s.CleanupExpired()
	s.mu.Lock()
	assert.Empty(t, s.challenges)
	s.mu.Unlock()
}
