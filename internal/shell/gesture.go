package shell

// DefaultSwipeThreshold is the minimum horizontal travel, in pixels, for a
// swipe.
const DefaultSwipeThreshold = 50

// Point is a pointer coordinate in pixels.
type Point struct {
	X, Y int
}

// Gesture is a classified pointer movement.
type Gesture int

const (
	GestureNone Gesture = iota
	SwipeLeft
	SwipeRight
)

func (g Gesture) String() string {
	switch g {
	case SwipeLeft:
		return "swipe-left"
	case SwipeRight:
		return "swipe-right"
	default:
		return "none"
	}
}

// Classify derives a gesture from a start/end pair. Only horizontal-dominant
// movement beyond threshold counts.
func Classify(start, end Point, threshold int) Gesture {
	dx := end.X - start.X
	dy := end.Y - start.Y
	adx, ady := abs(dx), abs(dy)
	if adx <= ady || adx <= threshold {
		return GestureNone
	}
	if dx < 0 {
		return SwipeLeft
	}
	return SwipeRight
}

// Interpreter pairs pointer-down and pointer-up samples.
type Interpreter struct {
	threshold int
	start     *Point
}

func NewInterpreter(threshold int) *Interpreter {
	if threshold <= 0 {
		threshold = DefaultSwipeThreshold
	}
	return &Interpreter{threshold: threshold}
}

// Begin records the start sample, replacing any unresolved one.
func (in *Interpreter) Begin(p Point) {
	in.start = &p
}

// End resolves the gesture and discards the sample. Without a prior Begin
// the result is GestureNone.
func (in *Interpreter) End(p Point) Gesture {
	if in.start == nil {
		return GestureNone
	}
	start := *in.start
	in.start = nil
	return Classify(start, p, in.threshold)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
