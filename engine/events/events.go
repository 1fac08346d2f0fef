// Package events implements the client's synchronous event bus and the
// closed set of game events that state managers publish through it.
package events

// Type discriminates a GameEvent. Each type has exactly one data shape.
type Type int

const (
	// Player
	PlayerMoved Type = iota
	PlayerStatsChanged
	PlayerPositionStateChanged
	PlayerMovementModeChanged

	// Entities
	EntitySpawned
	EntityDespawned
	EntityMoved
	EntityStatsChanged
	EntityAppearanceChanged

	// Doors
	DoorSpawned
	DoorStateChanged

	// Zone
	ZoneChanged
	ZoneLoading
	ZoneLoaded

	// Chat
	ChatMessage
	SystemMessage

	// Combat
	CombatEvent
	TargetChanged
	AutoAttackChanged

	// Group
	GroupChanged
	GroupMemberUpdated
	GroupInviteReceived

	TimeOfDayChanged

	// Pet
	PetCreated
	PetRemoved
	PetStatsChanged
	PetButtonStateChanged

	// Windows
	VendorWindowOpened
	VendorWindowClosed
	BankWindowOpened
	BankWindowClosed
	TrainerWindowOpened
	TrainerWindowClosed
	TradeskillContainerOpened
	TradeskillContainerClosed

	// Inventory
	InventorySlotChanged
	CursorItemChanged
	EquipmentStatsChanged

	// Spells
	SpellGemChanged
	CastingStateChanged
	SpellMemorizing

	typeCount
)

var typeNames = [typeCount]string{
	PlayerMoved:                "player_moved",
	PlayerStatsChanged:         "player_stats_changed",
	PlayerPositionStateChanged: "player_position_state_changed",
	PlayerMovementModeChanged:  "player_movement_mode_changed",
	EntitySpawned:              "entity_spawned",
	EntityDespawned:            "entity_despawned",
	EntityMoved:                "entity_moved",
	EntityStatsChanged:         "entity_stats_changed",
	EntityAppearanceChanged:    "entity_appearance_changed",
	DoorSpawned:                "door_spawned",
	DoorStateChanged:           "door_state_changed",
	ZoneChanged:                "zone_changed",
	ZoneLoading:                "zone_loading",
	ZoneLoaded:                 "zone_loaded",
	ChatMessage:                "chat_message",
	SystemMessage:              "system_message",
	CombatEvent:                "combat_event",
	TargetChanged:              "target_changed",
	AutoAttackChanged:          "auto_attack_changed",
	GroupChanged:               "group_changed",
	GroupMemberUpdated:         "group_member_updated",
	GroupInviteReceived:        "group_invite_received",
	TimeOfDayChanged:           "time_of_day_changed",
	PetCreated:                 "pet_created",
	PetRemoved:                 "pet_removed",
	PetStatsChanged:            "pet_stats_changed",
	PetButtonStateChanged:      "pet_button_state_changed",
	VendorWindowOpened:         "vendor_window_opened",
	VendorWindowClosed:         "vendor_window_closed",
	BankWindowOpened:           "bank_window_opened",
	BankWindowClosed:           "bank_window_closed",
	TrainerWindowOpened:        "trainer_window_opened",
	TrainerWindowClosed:        "trainer_window_closed",
	TradeskillContainerOpened:  "tradeskill_container_opened",
	TradeskillContainerClosed:  "tradeskill_container_closed",
	InventorySlotChanged:       "inventory_slot_changed",
	CursorItemChanged:          "cursor_item_changed",
	EquipmentStatsChanged:      "equipment_stats_changed",
	SpellGemChanged:            "spell_gem_changed",
	CastingStateChanged:        "casting_state_changed",
	SpellMemorizing:            "spell_memorizing",
}

// String returns the stable snake_case name of the event type.
func (t Type) String() string {
	if t < 0 || t >= typeCount {
		return "unknown"
	}
	return typeNames[t]
}

// Types returns every event type in declaration order.
func Types() []Type {
	out := make([]Type, 0, typeCount)
	for t := Type(0); t < typeCount; t++ {
		out = append(out, t)
	}
	return out
}

// ParseType resolves a snake_case event name.
func ParseType(name string) (Type, bool) {
	for t := Type(0); t < typeCount; t++ {
		if typeNames[t] == name {
			return t, true
		}
	}
	return 0, false
}

// Data is one of the event payloads declared in this package.
type Data interface {
	eventData()
}

// GameEvent pairs a type tag with its payload.
type GameEvent struct {
	Type Type
	Data Data
}

type PlayerMovedData struct {
	X        float32 `json:"x"`
	Y        float32 `json:"y"`
	Z        float32 `json:"z"`
	Heading  float32 `json:"heading"`
	DX       float32 `json:"dx"`
	DY       float32 `json:"dy"`
	DZ       float32 `json:"dz"`
	IsMoving bool    `json:"is_moving"`
}

type PlayerStatsChangedData struct {
	CurHP        int32 `json:"cur_hp"`
	MaxHP        int32 `json:"max_hp"`
	CurMana      int32 `json:"cur_mana"`
	MaxMana      int32 `json:"max_mana"`
	CurEndurance int32 `json:"cur_endurance"`
	MaxEndurance int32 `json:"max_endurance"`
	Level        uint8 `json:"level"`
}

type PlayerPositionStateData struct {
	Old uint8 `json:"old"`
	New uint8 `json:"new"`
}

type PlayerMovementModeData struct {
	Old uint8 `json:"old"`
	New uint8 `json:"new"`
}

type EntitySpawnedData struct {
	SpawnID uint16  `json:"spawn_id"`
	Name    string  `json:"name"`
	X       float32 `json:"x"`
	Y       float32 `json:"y"`
	Z       float32 `json:"z"`
	Heading float32 `json:"heading"`
	RaceID  uint16  `json:"race_id"`
	ClassID uint8   `json:"class_id"`
	Level   uint8   `json:"level"`
	Gender  uint8   `json:"gender"`
	Kind    uint8   `json:"kind"`
}

type EntityDespawnedData struct {
	SpawnID uint16 `json:"spawn_id"`
	Name    string `json:"name"`
}

type EntityMovedData struct {
	SpawnID   uint16  `json:"spawn_id"`
	X         float32 `json:"x"`
	Y         float32 `json:"y"`
	Z         float32 `json:"z"`
	Heading   float32 `json:"heading"`
	DX        float32 `json:"dx"`
	DY        float32 `json:"dy"`
	DZ        float32 `json:"dz"`
	Animation uint8   `json:"animation"`
}

type EntityStatsChangedData struct {
	SpawnID   uint16 `json:"spawn_id"`
	HPPercent uint8  `json:"hp_percent"`
	CurMana   uint16 `json:"cur_mana"`
	MaxMana   uint16 `json:"max_mana"`
}

type EntityAppearanceChangedData struct {
	SpawnID uint16 `json:"spawn_id"`
	Kind    uint8  `json:"kind"`
}

type DoorSpawnedData struct {
	DoorID  uint8   `json:"door_id"`
	Name    string  `json:"name"`
	X       float32 `json:"x"`
	Y       float32 `json:"y"`
	Z       float32 `json:"z"`
	Heading float32 `json:"heading"`
	Open    bool    `json:"open"`
}

type DoorStateChangedData struct {
	DoorID uint8 `json:"door_id"`
	Open   bool  `json:"open"`
}

// ZoneChangedData is published for ZoneChanged and ZoneLoaded.
type ZoneChangedData struct {
	ZoneName string  `json:"zone_name"`
	ZoneID   uint16  `json:"zone_id"`
	X        float32 `json:"x"`
	Y        float32 `json:"y"`
	Z        float32 `json:"z"`
	Heading  float32 `json:"heading"`
}

type ZoneLoadingData struct {
	ZoneName string  `json:"zone_name"`
	ZoneID   uint16  `json:"zone_id"`
	Progress float32 `json:"progress"`
	Status   string  `json:"status"`
}

// ChatMessageData is published for ChatMessage and SystemMessage.
type ChatMessageData struct {
	Sender      string `json:"sender"`
	Message     string `json:"message"`
	ChannelType uint32 `json:"channel_type"`
	ChannelName string `json:"channel_name"`
}

type CombatEventData struct {
	Kind       uint8  `json:"kind"`
	SourceID   uint16 `json:"source_id"`
	TargetID   uint16 `json:"target_id"`
	Damage     int32  `json:"damage"`
	SourceName string `json:"source_name"`
	TargetName string `json:"target_name"`
}

// TargetChangedData has SpawnID 0 when the target was cleared.
type TargetChangedData struct {
	SpawnID   uint16 `json:"spawn_id"`
	Name      string `json:"name"`
	HPPercent uint8  `json:"hp_percent"`
	Level     uint8  `json:"level"`
}

type AutoAttackChangedData struct {
	Enabled  bool   `json:"enabled"`
	TargetID uint16 `json:"target_id"`
}

// GroupChangedData is published for GroupChanged and GroupInviteReceived.
type GroupChangedData struct {
	InGroup     bool   `json:"in_group"`
	IsLeader    bool   `json:"is_leader"`
	LeaderName  string `json:"leader_name"`
	MemberCount int    `json:"member_count"`
}

type GroupMemberUpdatedData struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	SpawnID     uint16 `json:"spawn_id"`
	Level       uint8  `json:"level"`
	ClassID     uint8  `json:"class_id"`
	HPPercent   uint8  `json:"hp_percent"`
	ManaPercent uint8  `json:"mana_percent"`
	InZone      bool   `json:"in_zone"`
}

type TimeOfDayChangedData struct {
	Hour   uint8  `json:"hour"`
	Minute uint8  `json:"minute"`
	Day    uint8  `json:"day"`
	Month  uint8  `json:"month"`
	Year   uint16 `json:"year"`
}

type PetCreatedData struct {
	SpawnID uint16 `json:"spawn_id"`
	Name    string `json:"name"`
	Level   uint8  `json:"level"`
}

type PetRemovedData struct {
	SpawnID uint16 `json:"spawn_id"`
	Name    string `json:"name"`
}

type PetStatsChangedData struct {
	SpawnID     uint16 `json:"spawn_id"`
	HPPercent   uint8  `json:"hp_percent"`
	ManaPercent uint8  `json:"mana_percent"`
}

type PetButtonStateChangedData struct {
	Button uint8 `json:"button"`
	State  bool  `json:"state"`
}

// WindowOpenedData is published for the vendor, bank and trainer windows.
type WindowOpenedData struct {
	NPCID    uint16  `json:"npc_id"`
	NPCName  string  `json:"npc_name"`
	SellRate float32 `json:"sell_rate"`
}

type WindowClosedData struct {
	NPCID uint16 `json:"npc_id"`
}

type TradeskillContainerOpenedData struct {
	IsWorldObject bool   `json:"is_world_object"`
	ObjectID      uint32 `json:"object_id"`
	InventorySlot int16  `json:"inventory_slot"`
	ContainerName string `json:"container_name"`
	ContainerType uint8  `json:"container_type"`
	SlotCount     uint8  `json:"slot_count"`
}

type TradeskillContainerClosedData struct {
	WasWorldObject bool   `json:"was_world_object"`
	ObjectID       uint32 `json:"object_id"`
	InventorySlot  int16  `json:"inventory_slot"`
}

type InventorySlotChangedData struct {
	SlotID  int16  `json:"slot_id"`
	HasItem bool   `json:"has_item"`
	ItemID  uint32 `json:"item_id"`
}

type CursorItemChangedData struct {
	HasCursorItem bool  `json:"has_cursor_item"`
	QueueSize     uint8 `json:"queue_size"`
}

type EquipmentStatsChangedData struct {
	AC     int32   `json:"ac"`
	ATK    int32   `json:"atk"`
	HP     int32   `json:"hp"`
	Mana   int32   `json:"mana"`
	Weight float32 `json:"weight"`
}

type SpellGemChangedData struct {
	GemSlot             uint8  `json:"gem_slot"`
	SpellID             uint32 `json:"spell_id"`
	State               uint8  `json:"state"`
	CooldownRemainingMs uint32 `json:"cooldown_remaining_ms"`
}

type CastingStateChangedData struct {
	IsCasting       bool   `json:"is_casting"`
	SpellID         uint32 `json:"spell_id"`
	TargetID        uint16 `json:"target_id"`
	CastRemainingMs uint32 `json:"cast_remaining_ms"`
	CastTotalMs     uint32 `json:"cast_total_ms"`
}

type SpellMemorizingData struct {
	IsMemorizing bool   `json:"is_memorizing"`
	GemSlot      uint8  `json:"gem_slot"`
	SpellID      uint32 `json:"spell_id"`
	ProgressMs   uint32 `json:"progress_ms"`
	TotalMs      uint32 `json:"total_ms"`
}

func (PlayerMovedData) eventData()               {}
func (PlayerStatsChangedData) eventData()        {}
func (PlayerPositionStateData) eventData()       {}
func (PlayerMovementModeData) eventData()        {}
func (EntitySpawnedData) eventData()             {}
func (EntityDespawnedData) eventData()           {}
func (EntityMovedData) eventData()               {}
func (EntityStatsChangedData) eventData()        {}
func (EntityAppearanceChangedData) eventData()   {}
func (DoorSpawnedData) eventData()               {}
func (DoorStateChangedData) eventData()          {}
func (ZoneChangedData) eventData()               {}
func (ZoneLoadingData) eventData()               {}
func (ChatMessageData) eventData()               {}
func (CombatEventData) eventData()               {}
func (TargetChangedData) eventData()             {}
func (AutoAttackChangedData) eventData()         {}
func (GroupChangedData) eventData()              {}
func (GroupMemberUpdatedData) eventData()        {}
func (TimeOfDayChangedData) eventData()          {}
func (PetCreatedData) eventData()                {}
func (PetRemovedData) eventData()                {}
func (PetStatsChangedData) eventData()           {}
func (PetButtonStateChangedData) eventData()     {}
func (WindowOpenedData) eventData()              {}
func (WindowClosedData) eventData()              {}
func (TradeskillContainerOpenedData) eventData() {}
func (TradeskillContainerClosedData) eventData() {}
func (InventorySlotChangedData) eventData()      {}
func (CursorItemChangedData) eventData()         {}
func (EquipmentStatsChangedData) eventData()     {}
func (SpellGemChangedData) eventData()           {}
func (CastingStateChangedData) eventData()       {}
func (SpellMemorizingData) eventData()           {}
