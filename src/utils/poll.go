package utils

import "time"

// FrameInterval approximates a 30 fps refresh of the trading page.
const FrameInterval = 33 * time.Millisecond

// PollAttempts converts a timeout into the number of predicate calls made by PollUntil.
func PollAttempts(timeout time.Duration, interval time.Duration) int64 {
	if interval <= 0 {
		interval = FrameInterval
	}
	if timeout <= 0 {
		return 1
	}

	attempts := int64(timeout / interval)
	if timeout%interval != 0 {
		attempts++
	}

	return attempts
}

// PollUntil calls predicate until it reports true, fails, or the attempt ceiling derived
// from timeout is reached. It reports whether the predicate was satisfied.
func PollUntil(timeService TimeServiceInterface, predicate func() (bool, error), timeout time.Duration, interval time.Duration) (bool, error) {
	if interval <= 0 {
		interval = FrameInterval
	}

	attempts := PollAttempts(timeout, interval)
	for attempt := int64(0); attempt < attempts; attempt++ {
		done, err := predicate()
		if err != nil {
			return false, err
		}
		if done {
			return true, nil
		}

		timeService.WaitMilliseconds(interval.Milliseconds())
	}

	return false, nil
}
