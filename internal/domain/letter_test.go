package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLetterState(t *testing.T) {
	tests := []struct {
		name   string
		letter Letter
		want   LetterState
	}{
		{"draft", Letter{IsDraft: true}, StateDraft},
		{"scheduled", Letter{IsDelivered: false}, StateScheduled},
		{"delivered unread", Letter{IsDelivered: true}, StateDeliveredUnread},
		{"delivered read", Letter{IsDelivered: true, IsOpen: true}, StateDeliveredRead},
		{"draft wins over flags", Letter{IsDraft: true, IsDelivered: true}, StateDraft},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.letter.State())
		})
	}
}

func TestTruncateToDay(t *testing.T) {
	kst := time.FixedZone("KST", 9*3600)
	in := time.Date(2025, 12, 25, 23, 30, 0, 0, kst) // 14:30 UTC same day

	got := TruncateToDay(in)

	assert.Equal(t, time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestParseScheduleDate(t *testing.T) {
	got, err := ParseScheduleDate("2025-12-25")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseScheduleDate("25/12/2025")
	assert.Error(t, err)
}
