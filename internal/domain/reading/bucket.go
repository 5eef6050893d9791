package reading

import "time"

// Bucket is a relative-time display category.
// The declaration order is the display precedence.
type Bucket int

const (
	Today Bucket = iota
	Evening
	Afternoon
	Morning
	EarlyMorning
	Yesterday
	LastWeek
	Older
)

// Buckets lists every bucket in display order.
var Buckets = []Bucket{Today, Evening, Afternoon, Morning, EarlyMorning, Yesterday, LastWeek, Older}

func (b Bucket) String() string {
	switch b {
	case Today:
		return "Today"
	case Evening:
		return "Evening"
	case Afternoon:
		return "Afternoon"
	case Morning:
		return "Morning"
	case EarlyMorning:
		return "Early Morning"
	case Yesterday:
		return "Yesterday"
	case LastWeek:
		return "Last Week"
	case Older:
		return "Older"
	}
	return "Unknown"
}

// IsToday reports whether b is Today or one of its time-of-day refinements.
func (b Bucket) IsToday() bool {
	return b >= Today && b <= EarlyMorning
}

// ClassifyDay places t relative to the calendar day of now, in now's location.
// It never refines Today into a part of the day.
func ClassifyDay(now, t time.Time) Bucket {
	loc := now.Location()
	today := startOfDay(now)
	local := t.In(loc)

	switch {
	case sameDay(local, today):
		return Today
	case sameDay(local, today.AddDate(0, 0, -1)):
		return Yesterday
	case !local.Before(today.AddDate(0, 0, -7)) && local.Before(today):
		return LastWeek
	default:
		return Older
	}
}

// Classify is ClassifyDay with Today refined by the hour of t.
func Classify(now, t time.Time) Bucket {
	b := ClassifyDay(now, t)
	if b != Today {
		return b
	}
	switch h := t.In(now.Location()).Hour(); {
	case h < 7:
		return EarlyMorning
	case h < 12:
		return Morning
	case h < 17:
		return Afternoon
	default:
		return Evening
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
