package ecs_test

import (
	"testing"

	"github.com/plus3/compstore/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsQueueDoesNotApply(t *testing.T) {
	storage := ecs.NewComponentStorage()
	cmds := ecs.NewCommands()

	ecs.QueueAdd(cmds, 0, Position{X: 1})
	ecs.QueueRemove[Velocity](cmds, 0)
	cmds.Clear(4)
	cmds.Defer(func() {})

	assert.Equal(t, 4, cmds.Len())
	assert.False(t, ecs.IsRegistered[Position](storage))
}

func TestCommandsFlushAdd(t *testing.T) {
	storage := ecs.NewComponentStorage()
	cmds := ecs.NewCommands()

	ecs.QueueAdd(cmds, 2, Position{X: 1, Y: 2})
	cmds.Flush(storage)

	pos, ok := ecs.Get[Position](storage, 2)
	require.True(t, ok)
	assert.Equal(t, Position{X: 1, Y: 2}, pos)
	assert.Equal(t, 0, cmds.Len())
}

func TestCommandsFlushAddKeepsFirstWrite(t *testing.T) {
	storage := ecs.NewComponentStorage()
	cmds := ecs.NewCommands()

	ecs.QueueAdd(cmds, 0, Bar{X: 1})
	ecs.QueueAdd(cmds, 0, Bar{X: 2})
	cmds.Flush(storage)

	bar, ok := ecs.Get[Bar](storage, 0)
	require.True(t, ok)
	assert.Equal(t, uint32(1), bar.X)
}

func TestCommandsFlushSetOverwrites(t *testing.T) {
	storage := ecs.NewComponentStorage()
	ecs.Add(storage, 0, Bar{X: 1})

	cmds := ecs.NewCommands()
	ecs.QueueSet(cmds, 0, Bar{X: 2})
	cmds.Flush(storage)

	bar, _ := ecs.Get[Bar](storage, 0)
	assert.Equal(t, uint32(2), bar.X)
}

func TestCommandsRemoveBeforeWrites(t *testing.T) {
	storage := ecs.NewComponentStorage()
	ecs.Add(storage, 0, Health{Current: 1, Max: 10})

	cmds := ecs.NewCommands()
	ecs.QueueSet(cmds, 0, Health{Current: 10, Max: 10})
	ecs.QueueRemove[Health](cmds, 0)
	cmds.Flush(storage)

	health, ok := ecs.Get[Health](storage, 0)
	require.True(t, ok)
	assert.Equal(t, 10, health.Current)
}

func TestCommandsClearDropsWritesToSameIndex(t *testing.T) {
	storage := ecs.NewComponentStorage()
	ecs.Add(storage, 0, Position{X: 1})
	ecs.Add(storage, 0, Velocity{DX: 1})
	ecs.Add(storage, 1, Position{X: 2})

	cmds := ecs.NewCommands()
	ecs.QueueSet(cmds, 0, Health{Current: 5})
	ecs.QueueSet(cmds, 1, Health{Current: 6})
	cmds.Clear(0)
	cmds.Flush(storage)

	assert.False(t, ecs.Has[Position](storage, 0))
	assert.False(t, ecs.Has[Velocity](storage, 0))
	assert.False(t, ecs.Has[Health](storage, 0))
	assert.True(t, ecs.Has[Position](storage, 1))

	health, ok := ecs.Get[Health](storage, 1)
	require.True(t, ok)
	assert.Equal(t, 6, health.Current)
}

func TestCommandsDeferRunsLast(t *testing.T) {
	storage := ecs.NewComponentStorage()
	cmds := ecs.NewCommands()

	var seen bool
	cmds.Defer(func() {
		seen = ecs.Has[Name](storage, 0)
	})
	ecs.QueueAdd(cmds, 0, Name{Value: "late"})
	cmds.Flush(storage)

	assert.True(t, seen)
}

func TestCommandsDuringIteration(t *testing.T) {
	storage := ecs.NewComponentStorage()
	for i := 0; i < 4; i++ {
		ecs.Add(storage, i, Health{Current: i, Max: 3})
	}

	cmds := ecs.NewCommands()
	for i, health := range ecs.ComponentsMut[Health](storage) {
		if health.Current == 0 {
			ecs.QueueRemove[Health](cmds, i)
			ecs.QueueAdd(cmds, 100+i, Health{Current: health.Max, Max: health.Max})
		}
	}

	assert.Equal(t, 4, ecs.Len[Health](storage))
	cmds.Flush(storage)

	assert.False(t, ecs.Has[Health](storage, 0))
	assert.True(t, ecs.Has[Health](storage, 100))
	assert.Equal(t, 101, ecs.Len[Health](storage))
}

func TestCommandsReusableAfterFlush(t *testing.T) {
	storage := ecs.NewComponentStorage()
	cmds := ecs.NewCommands()

	ecs.QueueAdd(cmds, 0, Score(1))
	cmds.Flush(storage)
	cmds.Flush(storage)

	ecs.QueueAdd(cmds, 1, Score(2))
	assert.Equal(t, 1, cmds.Len())
	cmds.Flush(storage)

	assert.Equal(t, 2, ecs.Count[Score](storage))
}
