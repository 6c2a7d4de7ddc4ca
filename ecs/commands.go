package ecs

// Commands provides a buffer for deferred storage operations that are applied
// later with Flush. This prevents structural changes to a ComponentStorage while
// one of its arrays is being iterated.
type Commands struct {
	clears  []int
	removes []indexCommand
	writes  []indexCommand
	defers  []deferCommand
}

// NewCommands creates an empty command buffer.
func NewCommands() *Commands {
	return &Commands{}
}

type deferCommand struct {
	fn func()
}

// indexCommand is a typed operation on one entity index, captured in a closure
// so the buffer itself stays free of type parameters.
type indexCommand struct {
	index int
	apply func(s *ComponentStorage)
}

// Defer queues a function execution operation.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, deferCommand{fn: fn})
}

// Clear queues emptying index in every registered array.
func (c *Commands) Clear(index int) {
	c.clears = append(c.clears, index)
}

// QueueAdd queues an Add of component at index.
func QueueAdd[T any](c *Commands, index int, component T) {
	c.writes = append(c.writes, indexCommand{
		index: index,
		apply: func(s *ComponentStorage) { Add(s, index, component) },
	})
}

// QueueSet queues a Set of component at index.
func QueueSet[T any](c *Commands, index int, component T) {
	c.writes = append(c.writes, indexCommand{
		index: index,
		apply: func(s *ComponentStorage) { Set(s, index, component) },
	})
}

// QueueRemove queues a Remove of the T component at index.
func QueueRemove[T any](c *Commands, index int) {
	c.removes = append(c.removes, indexCommand{
		index: index,
		apply: func(s *ComponentStorage) { Remove[T](s, index) },
	})
}

// Len returns the number of queued operations.
func (c *Commands) Len() int {
	return len(c.clears) + len(c.removes) + len(c.writes) + len(c.defers)
}

// Flush flushes all commands to the provided storage, reseting the buffer state.
// Clears run first, then removes, then adds and sets in queue order, then
// deferred functions. Writes to an index cleared in the same flush are dropped.
func (c *Commands) Flush(storage *ComponentStorage) {
	clearedIndices := make(map[int]bool)

	for _, index := range c.clears {
		storage.Clear(index)
		clearedIndices[index] = true
	}

	for _, cmd := range c.removes {
		cmd.apply(storage)
	}

	for _, cmd := range c.writes {
		if !clearedIndices[cmd.index] {
			cmd.apply(storage)
		}
	}

	for _, df := range c.defers {
		df.fn()
	}

	c.clears = c.clears[:0]
	c.removes = c.removes[:0]
	c.writes = c.writes[:0]
	c.defers = c.defers[:0]
}
