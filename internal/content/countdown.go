package content

import "time"

// Remaining is the time left until the ceremony.
type Remaining struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// Countdown splits the time from now until target. It is zero once target has passed.
func Countdown(target, now time.Time) Remaining {
	d := target.Sub(now)
	if d <= 0 {
		return Remaining{}
	}
	total := int64(d / time.Second)
	return Remaining{
		Days:    int(total / 86400),
		Hours:   int(total / 3600 % 24),
		Minutes: int(total / 60 % 60),
		Seconds: int(total % 60),
	}
}
