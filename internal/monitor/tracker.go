package monitor

// Observe compares the previous status with the latest check result and
// returns the transition along with the new status. A single failed check
// is enough to report the endpoint down.
func Observe(previous Status, ok bool) (Transition, Status) {
	current := StatusDown
	if ok {
		current = StatusUp
	}

	switch {
	case previous == StatusPending:
		return TransitionFirst, current
	case previous == StatusUp && current == StatusDown:
		return TransitionDown, current
	case previous == StatusDown && current == StatusUp:
		return TransitionRecovered, current
	default:
		return TransitionNone, current
	}
}
