package monitor

import "github.com/fuomag9/apitray/internal/config"

// ShouldNotify maps a transition to a notification under the given mode.
// First observations never notify.
func ShouldNotify(t Transition, mode config.NotifyMode) NotificationKind {
	switch t {
	case TransitionDown:
		if mode == config.NotifyAll || mode == config.NotifyFail {
			return NotifyDown
		}
	case TransitionRecovered:
		if mode == config.NotifyAll {
			return NotifyRecovered
		}
	}
	return NotifyNone
}
