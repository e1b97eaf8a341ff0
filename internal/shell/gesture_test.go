package shell_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/nds/internal/shell"
)

func TestClassify(t *testing.T) {
	origin := shell.Point{X: 200, Y: 300}
	tests := []struct {
		name   string
		dx, dy int
		want   shell.Gesture
	}{
		{"left swipe", -60, 5, shell.SwipeLeft},
		{"right swipe", 60, -5, shell.SwipeRight},
		{"vertical dominant", -10, 40, shell.GestureNone},
		{"at threshold", -50, 0, shell.GestureNone},
		{"just past threshold", 51, 0, shell.SwipeRight},
		{"diagonal tie", 80, 80, shell.GestureNone},
		{"tap", 0, 0, shell.GestureNone},
		{"long vertical", 60, -200, shell.GestureNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			end := shell.Point{X: origin.X + tt.dx, Y: origin.Y + tt.dy}
			assert.Equal(t, tt.want, shell.Classify(origin, end, shell.DefaultSwipeThreshold))
		})
	}
}

func TestInterpreter_DiscardsSampleAfterResolution(t *testing.T) {
	in := shell.NewInterpreter(0)

	assert.Equal(t, shell.GestureNone, in.End(shell.Point{X: 0}), "end without begin")

	in.Begin(shell.Point{X: 100, Y: 0})
	assert.Equal(t, shell.SwipeLeft, in.End(shell.Point{X: 20, Y: 0}))
	assert.Equal(t, shell.GestureNone, in.End(shell.Point{X: -100, Y: 0}), "sample was consumed")
}

func TestGesture_OnlyMovesCarouselOnHome(t *testing.T) {
	s, rec, _ := newTestShell(t, 3)
	swipe := func(dx, dy int) {
		require.NoError(t, s.Dispatch(shell.TouchStart{X: 300, Y: 200}))
		require.NoError(t, s.Dispatch(shell.TouchEnd{X: 300 + dx, Y: 200 + dy}))
	}

	swipe(-60, 5)
	assert.Equal(t, 1, s.Carousel().Current())
	assertSingleActive(t, rec, 1)

	swipe(60, 5)
	swipe(60, 5)
	assert.Equal(t, 2, s.Carousel().Current(), "swipe right wraps backwards")

	require.NoError(t, s.Navigate("community"))
	swipe(-60, 5)
	assert.Equal(t, 2, s.Carousel().Current(), "no effect outside home")

	require.NoError(t, s.Navigate("home"))
	for _, sec := range []string{"home", "news", "scoreboard"} {
		require.NoError(t, s.Navigate(sec))
		swipe(-10, 40)
		assert.Equal(t, 2, s.Carousel().Current(), "vertical swipe in %s", sec)
	}
}
