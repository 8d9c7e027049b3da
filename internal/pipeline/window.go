package pipeline

import "time"

// Window is the hour-of-day gate throttling scheduled work to off-peak
// hours. The body runs only when the current time lies strictly between
// today's AfterHour and BeforeHour, or when Unlimited overrides the gate
// entirely. A degenerate window (AfterHour == BeforeHour) never opens.
type Window struct {
	AfterHour  int
	BeforeHour int
	Unlimited  bool
}

func (w Window) Open(now time.Time) bool {
	if w.Unlimited {
		return true
	}
	year, month, day := now.Date()
	from := time.Date(year, month, day, w.AfterHour, 0, 0, 0, now.Location())
	to := time.Date(year, month, day, w.BeforeHour, 0, 0, 0, now.Location())
	return now.After(from) && now.Before(to)
}
