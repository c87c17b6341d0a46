package domain

import "github.com/jonboulle/clockwork"

// clock stamps evaluation results. Tests freeze it with SetClock.
var clock = clockwork.NewRealClock()

// SetClock replaces the evaluation time source. Pass nil to restore real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
