package input

import "sync"

// queues holds latched actions, continuous state and the FIFO request
// queues behind a single mutex. Handlers embed it to get the consume side
// of Handler.
type queues struct {
	mu sync.Mutex

	actions [actionCount]bool
	state   State

	spells  []SpellCastRequest
	hotbar  []HotbarRequest
	targets []TargetRequest
	loots   []LootRequest
	keys    []KeyEvent
	chat    []ChatMessage
	moves   []MoveCommand
	raw     []string
}

func pop[T any](q *[]T) (T, bool) {
	var zero T
	if len(*q) == 0 {
		return zero, false
	}
	v := (*q)[0]
	(*q)[0] = zero
	*q = (*q)[1:]
	return v, true
}

func (q *queues) HasAction(a Action) bool {
	if !a.valid() {
		return false
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.actions[a]
}

func (q *queues) ConsumeAction(a Action) bool {
	if !a.valid() {
		return false
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	was := q.actions[a]
	q.actions[a] = false
	return was
}

func (q *queues) State() State {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

func (q *queues) ResetMouseDeltas() {
	q.mu.Lock()
	q.state.MouseDeltaX, q.state.MouseDeltaY = 0, 0
	q.mu.Unlock()
}

func (q *queues) ConsumeSpellCast() (SpellCastRequest, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return pop(&q.spells)
}

func (q *queues) ConsumeHotbar() (HotbarRequest, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return pop(&q.hotbar)
}

func (q *queues) ConsumeTarget() (TargetRequest, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return pop(&q.targets)
}

func (q *queues) ConsumeLoot() (LootRequest, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return pop(&q.loots)
}

func (q *queues) HasPendingKeyEvents() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.keys) > 0
}

func (q *queues) PopKeyEvent() (KeyEvent, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return pop(&q.keys)
}

func (q *queues) ClearPendingKeyEvents() {
	q.mu.Lock()
	q.keys = nil
	q.mu.Unlock()
}

func (q *queues) ConsumeChatMessage() (ChatMessage, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return pop(&q.chat)
}

func (q *queues) ConsumeMoveCommand() (MoveCommand, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return pop(&q.moves)
}

func (q *queues) ConsumeRawCommand() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return pop(&q.raw)
}

// Producer side. Callers hold no lock.

func (q *queues) trigger(a Action) {
	if !a.valid() {
		return
	}
	q.mu.Lock()
	q.actions[a] = true
	q.mu.Unlock()
}

func (q *queues) setState(fn func(*State)) {
	q.mu.Lock()
	fn(&q.state)
	q.mu.Unlock()
}

func (q *queues) push(fn func(q *queues)) {
	q.mu.Lock()
	fn(q)
	q.mu.Unlock()
}
