// Package types defines the shared data structures for the WillEQ client.
// This package contains only type definitions and constants, no logic.
package types

// EntityKind is the single source of truth for what a spawn is.
type EntityKind uint8

const (
	KindPlayer EntityKind = iota
	KindNPC
	KindPlayerCorpse
	KindNPCCorpse
)

// MovementMode is the player's locomotion speed class.
type MovementMode uint8

const (
	MoveRun MovementMode = iota
	MoveWalk
	MoveSneak
)

// PositionState is the player's posture.
type PositionState uint8

const (
	PosStanding PositionState = iota
	PosSitting
	PosCrouching
	PosFeignDeath
	PosDead
)

// SpellGemState is the lifecycle stage of a memorized spell gem.
type SpellGemState uint8

const (
	GemEmpty SpellGemState = iota
	GemReady
	GemCasting
	GemRefresh
	GemMemorizeProgress
)

// CombatKind classifies a combat message.
type CombatKind uint8

const (
	CombatHit CombatKind = iota
	CombatMiss
	CombatDodge
	CombatParry
	CombatBlock
	CombatRiposte
	CombatCriticalHit
	CombatDeath
)

// Weather is the current zone weather.
type Weather uint8

const (
	WeatherClear Weather = iota
	WeatherCloudy
	WeatherRain
	WeatherSnow
)

// ZoneDef describes a zone fixture loaded from Lua.
type ZoneDef struct {
	Name    string
	ID      uint16
	Hour    uint8
	Minute  uint8
	Player  PlayerDef
	Spawns  []SpawnDef
	Doors   []DoorDef
	Objects []ObjectDef
}

// PlayerDef is the character the offline world starts with.
type PlayerDef struct {
	Name      string
	LastName  string
	SpawnID   uint16
	Level     uint8
	ClassID   uint8
	RaceID    uint16
	X, Y, Z   float32
	Heading   float32
	MaxHP     int32
	MaxMana   int32
	MaxEnd    int32
	Platinum  int32
	Gold      int32
	Silver    int32
	Copper    int32
	Spells    []SpellDef
	PetName   string
	PetLevel  uint8
	PetSpawn  uint16
	BindZone  string
	GroupWith []string
}

// SpellDef places a spell in a gem slot.
type SpellDef struct {
	Gem        uint8 // 1-based
	SpellID    uint32
	Name       string
	CastTimeMs uint32
	RecastMs   uint32
	ManaCost   int32
	Damage     int32
}

// SpawnDef is a single entity in a zone fixture.
type SpawnDef struct {
	SpawnID  uint16
	Name     string
	Kind     EntityKind
	Level    uint8
	ClassID  uint8
	RaceID   uint16
	Gender   uint8
	X, Y, Z  float32
	Heading  float32
	MaxHP    int32
	Damage   int32
	Merchant bool
	Banker   bool
	Trainer  bool
	SellRate float32
	Loot     []string
	OwnerID  uint16
}

// DoorDef is a single door in a zone fixture.
type DoorDef struct {
	DoorID    uint8
	Name      string
	X, Y, Z   float32
	Heading   float32
	Open      bool
	Locked    bool
	ZonePoint string
}

// ObjectDef is a clickable world container such as a forge or oven.
type ObjectDef struct {
	DropID  uint32
	Name    string
	Kind    uint8
	Slots   uint8
	X, Y, Z float32
}
