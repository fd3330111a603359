package domain

import (
	"fmt"
	"time"
)

// Session is the single process-wide record of the managed instance.
// The zero value (inactive, zero start time) is the state at process start.
// Mutation happens only inside the session gate's critical section.
type Session struct {
	Active bool
	Start  time.Time
}

// CooldownWindow is a threshold decomposed for display. It always shows the
// configured threshold, not the time remaining.
type CooldownWindow struct {
	Hours   int
	Minutes int
	Seconds int
}

func WindowFromThreshold(threshold time.Duration) CooldownWindow {
	total := int(threshold / time.Second)
	hours, rest := total/3600, total%3600
	return CooldownWindow{
		Hours:   hours,
		Minutes: rest / 60,
		Seconds: rest % 60,
	}
}

func (w CooldownWindow) String() string {
	return fmt.Sprintf("%02dh:%02dm:%02ds", w.Hours, w.Minutes, w.Seconds)
}
