package state

import (
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/willeq/willeq/engine/events"
	"github.com/willeq/willeq/types"
)

func testEntities(t *testing.T) (*EntityManager, *recorder) {
	t.Helper()
	bus := events.NewBus()
	r := record(bus)
	em := NewEntityManager()
	em.SetEventBus(bus)
	for _, e := range []Entity{
		{SpawnID: 10, Name: "a_rat00", Kind: types.KindNPC, X: 5, HPPercent: 100},
		{SpawnID: 11, Name: "Fippy_Darkpaw01", Kind: types.KindNPC, X: 20, HPPercent: 100},
		{SpawnID: 12, Name: "Soandso", Kind: types.KindPlayer, Y: 3, HPPercent: 100},
		{SpawnID: 13, Name: "a_bat_corpse00", Kind: types.KindNPCCorpse, Y: -1},
		{SpawnID: 14, Name: "Gabober", Kind: types.KindNPC, X: 1, IsPet: true, PetOwnerID: 12, HPPercent: 100},
	} {
		if !em.AddEntity(e) {
			t.Fatalf("AddEntity(%d) failed", e.SpawnID)
		}
	}
	r.reset()
	return em, r
}

func TestEntityManager_AddUnique(t *testing.T) {
	em, r := testEntities(t)

	ok := em.AddEntity(Entity{SpawnID: 10, Name: "impostor"})
	testutil.AssertEqual(t, "duplicate add", ok, false)
	testutil.AssertEqual(t, "name kept", em.GetEntity(10).Name, "a_rat00")
	testutil.AssertEqual(t, "events", len(r.got), 0)

	ok = em.AddEntity(Entity{SpawnID: 99, Name: "newcomer"})
	testutil.AssertEqual(t, "fresh add", ok, true)
	testutil.AssertEqual(t, "retrievable", em.GetEntity(99).Name, "newcomer")
	testutil.AssertEqual(t, "spawn events", r.count(events.EntitySpawned), 1)
}

func TestEntityManager_AddCopiesValue(t *testing.T) {
	em := NewEntityManager()
	e := Entity{SpawnID: 1, Name: "orig"}
	em.AddEntity(e)
	e.Name = "changed"
	testutil.AssertEqual(t, "stored name", em.GetEntity(1).Name, "orig")
}

func TestEntityManager_Remove(t *testing.T) {
	em, r := testEntities(t)
	testutil.AssertEqual(t, "remove", em.RemoveEntity(10), true)
	testutil.AssertEqual(t, "remove again", em.RemoveEntity(10), false)
	testutil.AssertEqual(t, "has", em.HasEntity(10), false)
	testutil.AssertEqual(t, "despawn events", r.count(events.EntityDespawned), 1)
	data := r.got[0].Data.(events.EntityDespawnedData)
	testutil.AssertEqual(t, "despawn name", data.Name, "a_rat00")
}

func TestEntityManager_Updates(t *testing.T) {
	em, r := testEntities(t)

	testutil.AssertEqual(t, "move missing", em.UpdateEntityPosition(99, 0, 0, 0, 0, 0, 0, 0, 0), false)
	em.UpdateEntityPosition(10, 1, 1, 1, 90, 0, 0, 0, 0)
	em.UpdateEntityPosition(10, 1, 1, 1, 90, 0, 0, 0, 0)
	testutil.AssertEqual(t, "moved events", r.count(events.EntityMoved), 2)

	em.UpdateEntityHP(10, 100)
	em.UpdateEntityHP(10, 55)
	testutil.AssertEqual(t, "stats events", r.count(events.EntityStatsChanged), 1)

	testutil.AssertEqual(t, "bad slot", em.UpdateEntityEquipment(10, EquipmentSlots, 1, 0), false)
	testutil.AssertEqual(t, "equip", em.UpdateEntityEquipment(10, 2, 5, 0), true)
	em.UpdateEntityEquipment(10, 2, 5, 0)
	testutil.AssertEqual(t, "appearance events", r.count(events.EntityAppearanceChanged), 1)
}

func TestEntityManager_KindPredicates(t *testing.T) {
	tests := []struct {
		kind types.EntityKind
		want [4]bool // player, npc, player corpse, npc corpse
	}{
		{types.KindPlayer, [4]bool{true, false, false, false}},
		{types.KindNPC, [4]bool{false, true, false, false}},
		{types.KindPlayerCorpse, [4]bool{false, false, true, false}},
		{types.KindNPCCorpse, [4]bool{false, false, false, true}},
	}
	for _, tt := range tests {
		e := Entity{Kind: tt.kind}
		got := [4]bool{e.IsPlayer(), e.IsNPC(), e.IsPlayerCorpse(), e.IsNPCCorpse()}
		if got != tt.want {
			t.Errorf("kind %d predicates = %v, want %v", tt.kind, got, tt.want)
		}
		testutil.AssertEqual(t, "any corpse", e.IsAnyCorpse(), tt.want[2] || tt.want[3])
	}
}

func TestEntityManager_MarkAsCorpse(t *testing.T) {
	em, r := testEntities(t)
	em.MarkAsCorpse(10)
	em.MarkAsCorpse(12)
	em.MarkAsCorpse(13)
	em.MarkAsCorpse(99)

	testutil.AssertEqual(t, "npc corpse", em.GetEntity(10).Kind, types.KindNPCCorpse)
	testutil.AssertEqual(t, "player corpse", em.GetEntity(12).Kind, types.KindPlayerCorpse)
	testutil.AssertEqual(t, "hp zeroed", em.GetEntity(10).HPPercent, uint8(0))
	testutil.AssertEqual(t, "events", r.count(events.EntityAppearanceChanged), 2)
}

func TestEntityManager_FindByName(t *testing.T) {
	em, _ := testEntities(t)

	tests := []struct {
		query string
		want  uint16
	}{
		{"fippy", 11},
		{"FIPPY DARK", 11},
		{"a rat", 10},
		{"a_rat", 10},
		{"Soandso", 12},
		{"nobody", 0},
		{"", 0},
	}
	for _, tt := range tests {
		e := em.FindEntityByName(tt.query)
		var got uint16
		if e != nil {
			got = e.SpawnID
		}
		if got != tt.want {
			t.Errorf("FindEntityByName(%q) = %d, want %d", tt.query, got, tt.want)
		}
	}

	if em.FindEntityByExactName("soandso") != nil {
		t.Error("exact match should be case-sensitive")
	}
	testutil.AssertEqual(t, "exact", em.FindEntityByExactName("Soandso").SpawnID, uint16(12))
}

func TestEntityManager_RangeInclusive(t *testing.T) {
	em, _ := testEntities(t)
	ids := em.EntitiesInRange(0, 0, 0, 5)
	want := []uint16{10, 12, 13, 14}
	if len(ids) != len(want) {
		t.Fatalf("EntitiesInRange = %v, want %v", ids, want)
	}
	for i := range want {
		testutil.AssertEqual(t, "id", ids[i], want[i])
	}
}

func TestEntityManager_Nearest(t *testing.T) {
	em, _ := testEntities(t)

	testutil.AssertEqual(t, "nearest any", em.NearestEntity(0, 0, 0, nil).SpawnID, uint16(13))
	testutil.AssertEqual(t, "nearest npc", em.NearestNPC(0, 0, 0).SpawnID, uint16(14))
	testutil.AssertEqual(t, "nearest corpse", em.NearestCorpse(0, 0, 0).SpawnID, uint16(13))
	if em.NearestPlayer(0, 0, 0, 12) != nil {
		t.Error("excluded player returned")
	}
	testutil.AssertEqual(t, "nearest player", em.NearestPlayer(0, 0, 0, 0).SpawnID, uint16(12))
}

func TestEntityManager_NearestTieFavoursLowerID(t *testing.T) {
	em := NewEntityManager()
	em.AddEntity(Entity{SpawnID: 9, Kind: types.KindNPC, X: 2})
	em.AddEntity(Entity{SpawnID: 3, Kind: types.KindNPC, X: -2})
	testutil.AssertEqual(t, "tie", em.NearestNPC(0, 0, 0).SpawnID, uint16(3))
}

func TestEntityManager_Pets(t *testing.T) {
	em, _ := testEntities(t)
	testutil.AssertEqual(t, "is pet", em.IsPet(14), true)
	testutil.AssertEqual(t, "owner", em.PetOwnerID(14), uint16(12))
	testutil.AssertEqual(t, "not pet owner", em.PetOwnerID(10), uint16(0))
	testutil.AssertEqual(t, "by owner", em.FindPetByOwner(12), uint16(14))
	testutil.AssertEqual(t, "no pet", em.FindPetByOwner(10), uint16(0))
	testutil.AssertEqual(t, "all pets", len(em.AllPets()), 1)
}

func TestEntityManager_ClearFiresDespawnInOrder(t *testing.T) {
	em, r := testEntities(t)
	em.Clear()
	testutil.AssertEqual(t, "count", em.Count(), 0)
	testutil.AssertEqual(t, "despawns", r.count(events.EntityDespawned), 5)
	first := r.got[0].Data.(events.EntityDespawnedData)
	testutil.AssertEqual(t, "first despawn", first.SpawnID, uint16(10))
}

func TestDisplayName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"a_rat00", "a rat"},
		{"Fippy_Darkpaw01", "Fippy Darkpaw"},
		{"Soandso", "Soandso"},
		{"123", "123"},
	}
	for _, tt := range tests {
		if got := DisplayName(tt.in); got != tt.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
