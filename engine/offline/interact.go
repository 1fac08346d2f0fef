package offline

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/willeq/willeq/engine/action"
	"github.com/willeq/willeq/engine/state"
)

const combineChance = 60

// Hailing

func (w *World) Hail() { w.chat(w.gs.Player().Name(), action.Say, "Hail") }

// HailTarget greets the target. An NPC in range answers and opens its
// merchant, bank or trainer window.
func (w *World) HailTarget() {
	e := w.gs.Entities().GetEntity(w.gs.Combat().TargetID())
	if e == nil {
		w.Hail()
		return
	}
	p := w.gs.Player()
	w.chat(p.Name(), action.Say, "Hail, "+e.DisplayName())

	n, _ := w.livingNPC(e.SpawnID)
	if n == nil || !w.inRange(e) {
		return
	}
	name := e.DisplayName()
	switch {
	case n.def.Merchant:
		rate := n.def.SellRate
		if rate == 0 {
			rate = 1
		}
		p.SetVendor(e.SpawnID, rate, e.Name)
		w.chat(name, action.Say, "Welcome to my shop, "+p.Name()+".")
	case n.def.Banker:
		p.SetBanker(e.SpawnID)
		w.chat(name, action.Say, "Welcome, "+p.Name()+". Your belongings are safe with us.")
	case n.def.Trainer:
		p.SetTrainer(e.SpawnID, e.Name)
		w.chat(name, action.Say, "Greetings, "+p.Name()+". What would you like to learn?")
	default:
		w.chat(name, action.Say, "Hail, "+p.Name()+".")
	}
}

func (w *World) inRange(e *state.Entity) bool {
	return e.DistanceTo(w.gs.PlayerPosition()) <= interactRange
}

// Doors

func (w *World) ClickDoor(doorID uint8) {
	doors := w.gs.Doors()
	d := doors.GetDoor(doorID)
	if d == nil {
		return
	}
	x, y, z := w.gs.PlayerPosition()
	if distance(d.X-x, d.Y-y, d.Z-z) > interactRange {
		w.system("You can't reach that, get closer.")
		return
	}
	if d.IsLocked() {
		w.system("It's locked and you're not holding the key.")
		return
	}
	doors.ToggleDoorState(doorID)
	if d.ZonePoint == "" || !d.Open {
		return
	}
	def, ok := w.zones[foldName(d.ZonePoint)]
	if !ok {
		w.log.Warn("door leads to an unknown zone", zap.Uint8("door_id", doorID), zap.String("zone", d.ZonePoint))
		return
	}
	w.enter(def)
}

func (w *World) ClickNearestDoor() {
	d := w.gs.Doors().NearestDoor(w.gs.PlayerPosition())
	if d != nil {
		w.ClickDoor(d.DoorID)
	}
}

// Looting

// openCorpse checks that corpseID is a corpse the player can loot from
// where they stand.
func (w *World) openCorpse(corpseID uint16) (*npc, *state.Entity, bool) {
	e := w.gs.Entities().GetEntity(corpseID)
	if e == nil || !e.IsAnyCorpse() {
		w.system("You can only loot corpses.")
		return nil, nil, false
	}
	if e.IsPlayerCorpse() {
		w.system("You may not loot this corpse.")
		return nil, nil, false
	}
	if !w.inRange(e) {
		w.system("You are too far away to loot that corpse.")
		return nil, nil, false
	}
	n := w.npcs[corpseID]
	if n == nil {
		n = &npc{}
		w.npcs[corpseID] = n
	}
	return n, e, true
}

func (w *World) LootCorpse(corpseID uint16) {
	n, e, ok := w.openCorpse(corpseID)
	if !ok {
		return
	}
	w.gs.Player().SetLootingCorpse(corpseID)
	if len(n.loot) == 0 {
		w.systemf("%s has nothing to loot.", e.DisplayName())
		return
	}
	w.systemf("%s contains: %s", e.DisplayName(), strings.Join(n.loot, ", "))
}

func (w *World) LootItem(corpseID uint16, slot int16) {
	p := w.gs.Player()
	if p.LootingCorpse() != corpseID {
		w.system("You are not looting that corpse.")
		return
	}
	n, e, ok := w.openCorpse(corpseID)
	if !ok {
		return
	}
	if slot < 0 || int(slot) >= len(n.loot) {
		w.system("There is nothing in that slot.")
		return
	}
	if !w.take(n, int(slot)) {
		return
	}
	w.decayIfEmpty(n, e)
}

func (w *World) LootAll(corpseID uint16) {
	n, e, ok := w.openCorpse(corpseID)
	if !ok {
		return
	}
	w.gs.Player().SetLootingCorpse(corpseID)
	for len(n.loot) > 0 {
		if !w.take(n, 0) {
			break
		}
	}
	w.decayIfEmpty(n, e)
}

// take moves one corpse item into the first free general slot.
func (w *World) take(n *npc, i int) bool {
	item := n.loot[i]
	if _, ok := w.store(item); !ok {
		w.system("You have no room for that item.")
		return false
	}
	n.loot = append(n.loot[:i], n.loot[i+1:]...)
	w.systemf("You have looted a %s.", item)
	return true
}

// decayIfEmpty removes a fully looted NPC corpse and ends looting.
func (w *World) decayIfEmpty(n *npc, e *state.Entity) {
	if len(n.loot) > 0 {
		return
	}
	id := e.SpawnID
	w.gs.Player().ClearLootingCorpse()
	delete(w.npcs, id)
	w.gs.Entities().RemoveEntity(id)
	if w.gs.Combat().TargetID() == id {
		w.gs.Combat().ClearTarget()
	}
}

// Inventory

// generalIndex maps a general inventory slot id onto [0, GeneralCount).
func generalIndex(slot int16) (int16, bool) {
	i := slot - state.GeneralSlotBase
	return i, i >= 0 && i < state.GeneralCount
}

// store places item in the first free general slot.
func (w *World) store(item string) (int16, bool) {
	inv := w.gs.Inventory()
	for i := int16(0); i < state.GeneralCount; i++ {
		if inv.HasGeneralItem(i) {
			continue
		}
		w.items[i] = item
		inv.SetGeneralOccupied(i, true)
		return state.GeneralSlotBase + i, true
	}
	return 0, false
}

// Item returns the name of the item in a general slot id.
func (w *World) Item(slot int16) (string, bool) {
	i, ok := generalIndex(slot)
	if !ok {
		return "", false
	}
	item, ok := w.items[i]
	return item, ok
}

func (w *World) MoveItem(from, to int16, quantity uint32) {
	fi, okFrom := generalIndex(from)
	ti, okTo := generalIndex(to)
	if !okFrom || !okTo {
		w.system("You cannot move items there.")
		return
	}
	item, ok := w.items[fi]
	if !ok || fi == ti {
		return
	}
	inv := w.gs.Inventory()
	if other, ok := w.items[ti]; ok {
		w.items[fi] = other
	} else {
		delete(w.items, fi)
		inv.SetGeneralOccupied(fi, false)
	}
	w.items[ti] = item
	inv.SetGeneralOccupied(ti, true)
}

func (w *World) DeleteItem(slot int16) {
	i, ok := generalIndex(slot)
	if !ok {
		return
	}
	item, ok := w.items[i]
	if !ok {
		return
	}
	delete(w.items, i)
	w.gs.Inventory().SetGeneralOccupied(i, false)
	w.systemf("You destroy the %s.", item)
}

func (w *World) UseItem(slot int16) {
	item, ok := w.Item(slot)
	if !ok {
		w.system("There is nothing in that slot.")
		return
	}
	w.systemf("You use the %s.", item)
}

// Trade

func (w *World) RequestTrade(targetID uint16) {
	e := w.gs.Entities().GetEntity(targetID)
	if e == nil || targetID == w.gs.Player().SpawnID() || e.IsAnyCorpse() {
		w.system("You cannot trade with that.")
		return
	}
	if !w.inRange(e) {
		w.system("You are too far away to trade.")
		return
	}
	w.tradeWith = targetID
	w.systemf("You offer to trade with %s.", e.DisplayName())
}

func (w *World) AcceptTrade() {
	if w.tradeWith == 0 {
		w.system("You are not trading with anyone.")
		return
	}
	name := "your partner"
	if e := w.gs.Entities().GetEntity(w.tradeWith); e != nil {
		name = e.DisplayName()
	}
	w.tradeWith = 0
	w.systemf("The trade with %s is complete.", name)
}

func (w *World) CancelTrade() {
	if w.tradeWith == 0 {
		return
	}
	w.tradeWith = 0
	w.system("The trade has been cancelled.")
}

// Pet

func (w *World) petSay(msg string) {
	w.chat(state.DisplayName(w.gs.Pet().Name()), action.Say, msg)
}

// setButton turns one pet window button on and another off.
func (w *World) setButton(on, off uint8) {
	pet := w.gs.Pet()
	pet.SetButtonState(on, true)
	pet.SetButtonState(off, false)
}

func (w *World) toggleButton(b uint8) {
	pet := w.gs.Pet()
	pet.SetButtonState(b, !pet.ButtonState(b))
}

func (w *World) SendPetCommand(cmd uint8, targetID uint16) {
	pet := w.gs.Pet()
	if !pet.HasPet() {
		w.system("You do not have a pet.")
		return
	}
	switch cmd {
	case action.PetAttack, action.PetQAttack:
		_, e := w.livingNPC(targetID)
		if e == nil {
			w.petSay("I cannot attack that, master.")
			return
		}
		w.petTarget = targetID
		w.petSwingT = 0
		pet.SetButtonState(state.PetButtonSit, false)
		w.petSay("Attacking " + e.DisplayName() + ", Master.")
	case action.PetBackOff, action.PetStop:
		w.petTarget = 0
		if cmd == action.PetStop {
			w.toggleButton(state.PetButtonStop)
		}
		w.petSay("Sorry, Master..calming down.")
	case action.PetFollowMe:
		w.setButton(state.PetButtonFollow, state.PetButtonGuard)
		w.petSay("Following you, Master.")
	case action.PetGuardHere:
		w.setButton(state.PetButtonGuard, state.PetButtonFollow)
		w.petSay("Guarding with my life..oh splendid one.")
	case action.PetSit:
		w.toggleButton(state.PetButtonSit)
	case action.PetSitDown:
		pet.SetButtonState(state.PetButtonSit, true)
	case action.PetStandUp:
		pet.SetButtonState(state.PetButtonSit, false)
	case action.PetRegroup:
		w.petTarget = 0
		w.toggleButton(state.PetButtonRegroup)
	case action.PetTaunt:
		w.toggleButton(state.PetButtonTaunt)
	case action.PetHold:
		w.toggleButton(state.PetButtonHold)
	case action.PetGHold:
		w.toggleButton(state.PetButtonGHold)
	case action.PetSpellHold:
		w.toggleButton(state.PetButtonSpellHold)
	case action.PetFocus:
		w.toggleButton(state.PetButtonFocus)
	case action.PetHealthReport:
		w.petSay("I have " + strconv.Itoa(int(pet.HPPercent())) + " percent of my hit points left.")
	case action.PetLeader:
		w.petSay("My leader is " + w.gs.Player().Name() + ".")
	case action.PetGetLost:
		w.DismissPet()
	default:
		w.log.Debug("pet command ignored", zap.Uint8("cmd", cmd))
	}
}

func (w *World) DismissPet() {
	pet := w.gs.Pet()
	if !pet.HasPet() {
		return
	}
	id := pet.SpawnID()
	w.petTarget = 0
	w.player.PetName = ""
	pet.ClearPet()
	w.gs.Entities().RemoveEntity(id)
	w.system("Your pet has been dismissed.")
}

// Tradeskill

func (w *World) ClickWorldObject(dropID uint32) {
	ts := w.gs.Tradeskill()
	if ts.IsWorldContainer() && ts.ActiveObjectID() == dropID {
		ts.CloseContainer()
		return
	}
	o, ok := w.objects[dropID]
	if !ok {
		w.system("You cannot use that.")
		return
	}
	x, y, z := w.gs.PlayerPosition()
	if distance(o.X-x, o.Y-y, o.Z-z) > interactRange {
		w.system("You can't reach that, get closer.")
		return
	}
	ts.OpenWorldContainer(dropID, o.Name, o.Kind, o.Slots)
}

func (w *World) TradeskillCombine() {
	if !w.gs.Tradeskill().IsContainerOpen() {
		w.system("You do not have a container open.")
		return
	}
	if w.rng.Chance(combineChance) {
		w.system("You have fashioned the items together to create something new!")
		return
	}
	w.system("You lacked the skills to fashion the items together.")
}
