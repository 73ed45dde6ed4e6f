package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// a Wednesday, mid-afternoon
var wed = time.Date(2025, time.June, 18, 15, 30, 0, 0, time.Local)

func TestDateSeparator(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"same day", wed.Add(-2 * time.Hour), "Today"},
		{"previous day", wed.AddDate(0, 0, -1), "Yesterday"},
		{"just before midnight yesterday", time.Date(2025, time.June, 17, 23, 59, 0, 0, time.Local), "Yesterday"},
		{"within the week", wed.AddDate(0, 0, -4), "Saturday"},
		{"older this year", wed.AddDate(0, 0, -12), "Jun 6"},
		{"previous year", wed.AddDate(-1, 0, 0), "Jun 18, 2024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DateSeparator(tt.t, wed))
		})
	}
}

func TestNeedsDateSeparator(t *testing.T) {
	assert.True(t, NeedsDateSeparator(nil, wed), "first message always gets one")

	sameDay := wed.Add(-3 * time.Hour)
	assert.False(t, NeedsDateSeparator(&sameDay, wed))

	prevDay := wed.AddDate(0, 0, -1)
	assert.True(t, NeedsDateSeparator(&prevDay, wed))

	// messages a minute apart across midnight still split
	beforeMidnight := time.Date(2025, time.June, 17, 23, 59, 30, 0, time.Local)
	afterMidnight := time.Date(2025, time.June, 18, 0, 0, 30, 0, time.Local)
	assert.True(t, NeedsDateSeparator(&beforeMidnight, afterMidnight))
}

func TestPreviewTime(t *testing.T) {
	assert.Equal(t, "1:30PM", PreviewTime(wed.Add(-2*time.Hour), wed))
	assert.Equal(t, "Yesterday", PreviewTime(wed.AddDate(0, 0, -1), wed))
	assert.Equal(t, "Jun 1", PreviewTime(wed.AddDate(0, 0, -17), wed))
}

func TestMessageTime(t *testing.T) {
	assert.Equal(t, "3:30PM", MessageTime(wed))
}
