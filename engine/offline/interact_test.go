package offline

import (
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/willeq/willeq/engine/action"
	"github.com/willeq/willeq/engine/state"
)

func TestClickDoor(t *testing.T) {
	tests := map[string]struct {
		door     uint8
		wantOpen bool
		wantMsg  string
	}{
		"opens":       {door: 1, wantOpen: true},
		"locked":      {door: 2, wantMsg: "It's locked and you're not holding the key."},
		"too far":     {door: 4, wantMsg: "You can't reach that, get closer."},
		"broken link": {door: 5, wantOpen: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			w := newTestWorld(t)
			w.ClickDoor(tc.door)
			testutil.AssertEqual(t, "open", w.State().Doors().GetDoor(tc.door).Open, tc.wantOpen)
			testutil.AssertEqual(t, "message", w.last(), tc.wantMsg)
			testutil.AssertEqual(t, "zone", w.State().CurrentZoneName(), "qeynos2")
		})
	}
}

func TestClickDoor_Closes(t *testing.T) {
	w := newTestWorld(t)
	w.ClickDoor(1)
	w.ClickDoor(1)
	testutil.AssertEqual(t, "open", w.State().Doors().GetDoor(1).Open, false)
}

func TestClickDoor_ZonePoint(t *testing.T) {
	w := newTestWorld(t)
	w.ClickDoor(3)
	testutil.AssertEqual(t, "zone", w.State().CurrentZoneName(), "qeytoqrg")
	testutil.AssertEqual(t, "old doors gone", w.State().Doors().Count(), 0)
	testutil.AssertEqual(t, "message", w.last(), "You have entered qeytoqrg.")
}

func TestClickNearestDoor(t *testing.T) {
	w := newTestWorld(t)
	w.ClickNearestDoor()
	testutil.AssertEqual(t, "message", w.last(), "It's locked and you're not holding the key.")
}

func TestLootCorpse(t *testing.T) {
	w := newTestWorld(t)
	p := w.State().Player()

	w.LootItem(30, 0)
	testutil.AssertEqual(t, "not open", w.last(), "You are not looting that corpse.")

	w.LootCorpse(30)
	testutil.AssertEqual(t, "listing", w.last(), "an old corpse contains: Rusty Dagger, Cloth Cap")
	testutil.AssertEqual(t, "looting", p.LootingCorpse(), uint16(30))

	w.LootItem(30, 1)
	testutil.AssertEqual(t, "looted", w.last(), "You have looted a Cloth Cap.")
	item, ok := w.Item(state.GeneralSlotBase)
	testutil.AssertEqual(t, "slot 0 filled", ok, true)
	testutil.AssertEqual(t, "slot 0 item", item, "Cloth Cap")

	w.LootAll(30)
	item, _ = w.Item(state.GeneralSlotBase + 1)
	testutil.AssertEqual(t, "slot 1 item", item, "Rusty Dagger")
	testutil.AssertEqual(t, "corpse decayed", w.State().Entities().HasEntity(30), false)
	testutil.AssertEqual(t, "looting cleared", p.IsLooting(), false)
	testutil.AssertEqual(t, "general items", w.State().Inventory().GeneralItemCount(), 2)
}

func TestLootCorpse_Refusals(t *testing.T) {
	tests := map[string]struct {
		setup  func(w *testWorld)
		corpse uint16
		want   string
	}{
		"living npc": {corpse: 10, want: "You can only loot corpses."},
		"missing":    {corpse: 999, want: "You can only loot corpses."},
		"player corpse": {
			setup:  func(w *testWorld) { w.State().Entities().MarkAsCorpse(20) },
			corpse: 20,
			want:   "You may not loot this corpse.",
		},
		"too far": {
			setup:  func(w *testWorld) { w.State().Player().SetPosition(0, 100, 0) },
			corpse: 30,
			want:   "You are too far away to loot that corpse.",
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			w := newTestWorld(t)
			if tc.setup != nil {
				tc.setup(w)
			}
			w.LootCorpse(tc.corpse)
			testutil.AssertEqual(t, "message", w.last(), tc.want)
			testutil.AssertEqual(t, "looting", w.State().Player().IsLooting(), false)
		})
	}
}

func TestLootCorpse_NothingLeft(t *testing.T) {
	w := newTestWorld(t)
	w.State().Entities().MarkAsCorpse(11)
	w.LootCorpse(11)
	testutil.AssertEqual(t, "message", w.last(), "Guard Hanns has nothing to loot.")
}

func TestInventory_MoveAndDelete(t *testing.T) {
	w := newTestWorld(t)
	inv := w.State().Inventory()
	w.LootAll(30)

	w.MoveItem(state.GeneralSlotBase, state.GeneralSlotBase+5, 1)
	_, ok := w.Item(state.GeneralSlotBase)
	testutil.AssertEqual(t, "source emptied", ok, false)
	testutil.AssertEqual(t, "source slot", inv.HasGeneralItem(0), false)
	item, _ := w.Item(state.GeneralSlotBase + 5)
	testutil.AssertEqual(t, "moved", item, "Rusty Dagger")

	w.MoveItem(state.GeneralSlotBase+1, state.GeneralSlotBase+5, 1)
	item, _ = w.Item(state.GeneralSlotBase + 1)
	testutil.AssertEqual(t, "swapped back", item, "Rusty Dagger")
	item, _ = w.Item(state.GeneralSlotBase + 5)
	testutil.AssertEqual(t, "swapped in", item, "Cloth Cap")

	w.MoveItem(state.GeneralSlotBase, 0, 1)
	testutil.AssertEqual(t, "bad slot", w.last(), "You cannot move items there.")

	w.UseItem(state.GeneralSlotBase + 5)
	testutil.AssertEqual(t, "use", w.last(), "You use the Cloth Cap.")

	w.DeleteItem(state.GeneralSlotBase + 5)
	testutil.AssertEqual(t, "destroyed", w.last(), "You destroy the Cloth Cap.")
	testutil.AssertEqual(t, "slot freed", inv.HasGeneralItem(5), false)

	w.UseItem(state.GeneralSlotBase + 5)
	testutil.AssertEqual(t, "use empty", w.last(), "There is nothing in that slot.")
}

func TestTrade(t *testing.T) {
	w := newTestWorld(t)
	w.AcceptTrade()
	testutil.AssertEqual(t, "idle accept", w.last(), "You are not trading with anyone.")

	w.RequestTrade(20)
	testutil.AssertEqual(t, "partner", w.TradePartner(), uint16(20))
	testutil.AssertEqual(t, "offer", w.last(), "You offer to trade with Bob.")
	w.AcceptTrade()
	testutil.AssertEqual(t, "done", w.last(), "The trade with Bob is complete.")
	testutil.AssertEqual(t, "cleared", w.TradePartner(), uint16(0))

	w.RequestTrade(30)
	testutil.AssertEqual(t, "corpse", w.last(), "You cannot trade with that.")
	w.RequestTrade(13)
	testutil.AssertEqual(t, "far", w.last(), "You are too far away to trade.")

	w.RequestTrade(12)
	w.CancelTrade()
	testutil.AssertEqual(t, "cancel", w.last(), "The trade has been cancelled.")
}

func TestPetCommands(t *testing.T) {
	w := newTestWorld(t)
	pet := w.State().Pet()

	w.SendPetCommand(action.PetAttack, 10)
	testutil.AssertEqual(t, "target", w.PetTarget(), uint16(10))
	testutil.AssertEqual(t, "says", w.chatted("Fido", "Attacking a rat, Master."), true)

	w.SendPetCommand(action.PetBackOff, 0)
	testutil.AssertEqual(t, "backed off", w.PetTarget(), uint16(0))

	w.SendPetCommand(action.PetAttack, 20)
	testutil.AssertEqual(t, "refused", w.chatted("Fido", "I cannot attack that, master."), true)

	w.SendPetCommand(action.PetGuardHere, 0)
	testutil.AssertEqual(t, "guard", pet.ButtonState(state.PetButtonGuard), true)
	testutil.AssertEqual(t, "follow off", pet.ButtonState(state.PetButtonFollow), false)
	w.SendPetCommand(action.PetFollowMe, 0)
	testutil.AssertEqual(t, "follow", pet.ButtonState(state.PetButtonFollow), true)
	testutil.AssertEqual(t, "guard off", pet.ButtonState(state.PetButtonGuard), false)

	w.SendPetCommand(action.PetSit, 0)
	testutil.AssertEqual(t, "sit toggled", pet.ButtonState(state.PetButtonSit), true)
	w.SendPetCommand(action.PetStandUp, 0)
	testutil.AssertEqual(t, "stood", pet.ButtonState(state.PetButtonSit), false)
	w.SendPetCommand(action.PetTaunt, 0)
	testutil.AssertEqual(t, "taunt", pet.ButtonState(state.PetButtonTaunt), true)

	w.SendPetCommand(action.PetLeader, 0)
	testutil.AssertEqual(t, "leader", w.chatted("Fido", "My leader is Tester."), true)

	w.SendPetCommand(action.PetGetLost, 0)
	testutil.AssertEqual(t, "dismissed", pet.HasPet(), false)
	testutil.AssertEqual(t, "entity gone", w.State().Entities().HasEntity(defaultPetSpawn), false)

	w.SendPetCommand(action.PetAttack, 10)
	testutil.AssertEqual(t, "no pet", w.last(), "You do not have a pet.")
}

func TestPet_KillsTarget(t *testing.T) {
	w := newTestWorld(t)
	w.SendPetCommand(action.PetAttack, 10)

	dead := w.tickUntil(swingDelay, 50, func() bool { return w.State().Entities().GetEntity(10).IsNPCCorpse() })
	testutil.AssertEqual(t, "corpse", dead, true)
	testutil.AssertEqual(t, "message", w.said("a rat has been slain by Fido!"), true)
	testutil.AssertEqual(t, "target cleared", w.PetTarget(), uint16(0))
}

func TestWorldObject(t *testing.T) {
	w := newTestWorld(t)
	ts := w.State().Tradeskill()

	w.TradeskillCombine()
	testutil.AssertEqual(t, "closed", w.last(), "You do not have a container open.")

	w.ClickWorldObject(500)
	testutil.AssertEqual(t, "open", ts.IsWorldContainer(), true)
	testutil.AssertEqual(t, "name", ts.ContainerName(), "Forge")
	testutil.AssertEqual(t, "slots", ts.SlotCount(), uint8(10))

	w.TradeskillCombine()
	if !w.said("You have fashioned the items together to create something new!") &&
		!w.said("You lacked the skills to fashion the items together.") {
		t.Fatalf("combine produced %v", w.msgs)
	}

	w.ClickWorldObject(500)
	testutil.AssertEqual(t, "toggled closed", ts.IsContainerOpen(), false)

	w.ClickWorldObject(999)
	testutil.AssertEqual(t, "unknown", w.last(), "You cannot use that.")
}
