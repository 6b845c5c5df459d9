package messaging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChannelSMS(t *testing.T) {
	c, err := NewChannelSMS("가을 시타 이벤트", "", nil)
	require.NoError(t, err)
	assert.Equal(t, TypeSMS300, c.MessageType)
	assert.Equal(t, StatusDraft, c.Status)
	assert.NotNil(t, c.RecipientNumbers)

	_, err = NewChannelSMS(" ", TypeSMS, nil)
	assert.Error(t, err)
	_, err = NewChannelSMS("x", MessageType("RCS"), nil)
	assert.Error(t, err)
}

func TestResolveType(t *testing.T) {
	tests := []struct {
		in       MessageType
		hasImage bool
		want     MessageType
	}{
		{TypeSMS300, false, TypeLMS},
		{"", false, TypeLMS},
		{TypeSMS, false, TypeSMS},
		{TypeLMS, true, TypeLMS},
		{TypeMMS, true, TypeMMS},
		{TypeMMS, false, TypeLMS},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveType(tt.in, tt.hasImage), "%s image=%v", tt.in, tt.hasImage)
	}
}

func TestResolveStatus(t *testing.T) {
	assert.Equal(t, StatusSent, ResolveStatus(10, 0))
	assert.Equal(t, StatusSent, ResolveStatus(0, 0))
	assert.Equal(t, StatusPartial, ResolveStatus(3, 2))
	assert.Equal(t, StatusFailed, ResolveStatus(0, 5))
}

func TestChannelSMS_Body(t *testing.T) {
	c, _ := NewChannelSMS("신제품 입고", TypeLMS, nil)
	assert.Equal(t, "신제품 입고", c.Body())
	c.ShortLink = "https://mas.golf/x"
	assert.Equal(t, "신제품 입고\n\n링크: https://mas.golf/x", c.Body())
}

func TestChannelSMS_IsDue(t *testing.T) {
	now := time.Date(2025, 11, 24, 10, 0, 0, 0, time.UTC)
	c, _ := NewChannelSMS("x", TypeSMS, nil)
	assert.False(t, c.IsDue(now))

	at := now
	c.ScheduledAt = &at
	assert.True(t, c.IsDue(now))

	later := now.Add(time.Minute)
	c.ScheduledAt = &later
	assert.False(t, c.IsDue(now))

	c.ScheduledAt = &at
	c.Status = StatusSent
	assert.False(t, c.IsDue(now))
}

func TestChannelSMS_CompleteAndFail(t *testing.T) {
	now := time.Now()
	c, _ := NewChannelSMS("x", TypeSMS, nil)
	at := now.Add(-time.Minute)
	c.ScheduledAt = &at

	c.Complete(Outcome{GroupIDs: []string{"G1", "G2"}, Attempted: 5, Success: 4, Fail: 1}, now)
	assert.Equal(t, StatusPartial, c.Status)
	assert.Equal(t, "G1,G2", c.SolapiGroupID)
	assert.Equal(t, 5, c.SentCount)
	assert.NotNil(t, c.ScheduledAt)

	c.Fail()
	assert.Equal(t, StatusFailed, c.Status)
	assert.Nil(t, c.ScheduledAt)
}
