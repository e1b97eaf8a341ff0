package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeaScheduler(t *testing.T) {
	s := newTeaScheduler()
	fired := 0
	task := s.Every(time.Second, func() { fired++ })

	require.Equal(t, 1, s.live())
	require.NotNil(t, s.drain(), "first tick is armed")
	assert.Nil(t, s.drain(), "drain empties the queue")

	tt := task.(*teaTask)
	first := schedTickMsg{id: tt.id, gen: tt.gen}
	assert.True(t, s.fire(first))
	assert.Equal(t, 1, fired)
	assert.NotNil(t, s.drain(), "next tick is armed")

	assert.False(t, s.fire(first), "stale generation")
	assert.Equal(t, 1, fired)

	task.Stop()
	task.Stop()
	assert.Equal(t, 0, s.live())
	assert.False(t, s.fire(schedTickMsg{id: tt.id, gen: tt.gen}))
	assert.Equal(t, 1, fired)
}

func TestTeaScheduler_TaskStoppingItself(t *testing.T) {
	s := newTeaScheduler()
	var task interface{ Stop() }
	runs := 0
	task = s.Every(time.Second, func() {
		runs++
		task.Stop()
	})
	tt := task.(*teaTask)

	assert.True(t, s.fire(schedTickMsg{id: tt.id, gen: tt.gen}))
	assert.Equal(t, 0, s.live())
	assert.False(t, s.fire(schedTickMsg{id: tt.id, gen: tt.gen}))
	assert.Equal(t, 1, runs)
}
