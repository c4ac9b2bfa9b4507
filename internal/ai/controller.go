package ai

import "time"

// Controller decides what a creature does next.
type Controller interface {
	// Think runs one decision step on the tick goroutine.
	Think(now time.Time)
}
