package input

// NullHandler produces no input of its own. Automated mode, the terminal
// UI and tests drive it through the Inject methods.
type NullHandler struct {
	queues
	inactive bool
}

func NewNullHandler() *NullHandler { return &NullHandler{} }

func (h *NullHandler) Update() {}

func (h *NullHandler) Active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.inactive
}

// Shutdown marks the handler inactive.
func (h *NullHandler) Shutdown() {
	h.mu.Lock()
	h.inactive = true
	h.mu.Unlock()
}

func (h *NullHandler) InjectAction(a Action) { h.trigger(a) }

// SetState replaces the continuous input state.
func (h *NullHandler) SetState(s State) {
	h.setState(func(st *State) { *st = s })
}

// UpdateState edits the continuous input state in place.
func (h *NullHandler) UpdateState(fn func(*State)) { h.setState(fn) }

func (h *NullHandler) InjectSpellCast(gem uint8) {
	h.push(func(q *queues) { q.spells = append(q.spells, SpellCastRequest{GemSlot: gem}) })
}

func (h *NullHandler) InjectHotbar(slot uint8) {
	h.push(func(q *queues) { q.hotbar = append(q.hotbar, HotbarRequest{Slot: slot}) })
}

func (h *NullHandler) InjectTarget(spawnID uint16) {
	h.push(func(q *queues) { q.targets = append(q.targets, TargetRequest{SpawnID: spawnID}) })
}

func (h *NullHandler) InjectLoot(corpseID uint16) {
	h.push(func(q *queues) { q.loots = append(q.loots, LootRequest{CorpseID: corpseID}) })
}

func (h *NullHandler) InjectKey(ev KeyEvent) {
	h.push(func(q *queues) { q.keys = append(q.keys, ev) })
}

func (h *NullHandler) InjectChat(msg ChatMessage) {
	h.push(func(q *queues) { q.chat = append(q.chat, msg) })
}

func (h *NullHandler) InjectMove(cmd MoveCommand) {
	h.push(func(q *queues) { q.moves = append(q.moves, cmd) })
}

func (h *NullHandler) InjectCommand(line string) {
	h.push(func(q *queues) { q.raw = append(q.raw, line) })
}
