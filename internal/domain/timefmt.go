package domain

import "time"

// Pure time rendering helpers for the chat log and the conversation list.
// All of them take the reference time explicitly so callers (and tests) decide
// what "now" means.

// SameCalendarDay reports whether a and b fall on the same local calendar date.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// NeedsDateSeparator reports whether a separator belongs before a message sent
// at cur, given the previous message's sentAt. The first message of a log
// always gets one.
func NeedsDateSeparator(prev *time.Time, cur time.Time) bool {
	if prev == nil {
		return true
	}
	return !SameCalendarDay(*prev, cur)
}

// DateSeparator renders the label shown above the first message of a calendar
// day: "Today", "Yesterday", the weekday name within the last week, and an
// absolute date beyond that.
func DateSeparator(t, now time.Time) string {
	day := startOfDay(t)
	today := startOfDay(now)
	switch {
	case day.Equal(today):
		return "Today"
	case day.Equal(today.AddDate(0, 0, -1)):
		return "Yesterday"
	case today.Sub(day) < 7*24*time.Hour:
		return t.Weekday().String()
	case t.Year() != now.Year():
		return t.Format("Jan 2, 2006")
	default:
		return t.Format("Jan 2")
	}
}

// PreviewTime renders a chat head's updated-at: time of day if today,
// "Yesterday" if yesterday, a short date otherwise.
func PreviewTime(t, now time.Time) string {
	switch {
	case SameCalendarDay(t, now):
		return t.Format(time.Kitchen)
	case SameCalendarDay(t, now.AddDate(0, 0, -1)):
		return "Yesterday"
	default:
		return t.Format("Jan 2")
	}
}

// MessageTime renders the time-of-day stamp under a chat bubble.
func MessageTime(t time.Time) string {
	return t.Format(time.Kitchen)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
