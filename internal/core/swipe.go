package core

// DefaultSwipeThreshold is the minimum displacement, in device-independent
// units, for a pointer gesture to count as a swipe.
const DefaultSwipeThreshold = 40

// Swipe classifies a pointer displacement into a directional action.
// Coordinates follow screen convention: y grows downward.
// The horizontal axis wins ties (|dx| >= |dy|). Displacements whose dominant
// component does not exceed the threshold yield ActionNone and false.
func Swipe(dx, dy, threshold int) (Action, bool) {
	if Abs(dx) >= Abs(dy) {
		switch {
		case dx < -threshold:
			return ActionLeft, true
		case dx > threshold:
			return ActionRight, true
		}
		return ActionNone, false
	}

	switch {
	case dy < -threshold:
		return ActionUp, true
	case dy > threshold:
		return ActionDown, true
	}
	return ActionNone, false
}

// SwipeDetector turns press/release pointer pairs into swipe actions.
type SwipeDetector struct {
	threshold int
	startX    int
	startY    int
	pressed   bool
}

// NewSwipeDetector creates a detector with the given threshold.
// A non-positive threshold falls back to DefaultSwipeThreshold.
func NewSwipeDetector(threshold int) *SwipeDetector {
	if threshold <= 0 {
		threshold = DefaultSwipeThreshold
	}
	return &SwipeDetector{threshold: threshold}
}

// Threshold returns the configured minimum displacement.
func (d *SwipeDetector) Threshold() int {
	return d.threshold
}

// Press records the start of a gesture.
func (d *SwipeDetector) Press(x, y int) {
	d.startX = x
	d.startY = y
	d.pressed = true
}

// Release ends a gesture and classifies it.
// A release without a preceding press is ignored.
func (d *SwipeDetector) Release(x, y int) (Action, bool) {
	if !d.pressed {
		return ActionNone, false
	}
	d.pressed = false
	return Swipe(x-d.startX, y-d.startY, d.threshold)
}

// Cancel forgets a gesture in progress.
func (d *SwipeDetector) Cancel() {
	d.pressed = false
}
