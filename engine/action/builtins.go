package action

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/willeq/willeq/engine/parser"
	"github.com/willeq/willeq/engine/state"
	"github.com/willeq/willeq/types"
)

// WhoRadius is the /who search radius.
const WhoRadius = 200

// Emote names with a matching animation.
var emoteAnimations = map[string]uint8{
	"wave":   29,
	"cheer":  27,
	"dance":  58,
	"cry":    18,
	"kneel":  19,
	"laugh":  63,
	"point":  64,
	"salute": 67,
	"shrug":  65,
}

func (p *CommandProcessor) registerBuiltins() {
	reg := func(name string, aliases []string, usage, desc, cat string, needsArgs bool, fn CommandFunc) {
		p.Register(CommandInfo{
			Name:         name,
			Aliases:      aliases,
			Usage:        usage,
			Description:  desc,
			Category:     cat,
			RequiresArgs: needsArgs,
		}, fn)
	}
	chat := func(ch ChatChannel) CommandFunc {
		return func(args string) Result { return p.d.SendChatMessage(ch, args) }
	}

	// Chat
	reg("say", []string{"s"}, "/say <message>", "Say something to nearby players", "Chat", true, chat(Say))
	reg("shout", []string{"sh"}, "/shout <message>", "Shout to the zone", "Chat", true, chat(Shout))
	reg("ooc", nil, "/ooc <message>", "Out of character message", "Chat", true, chat(OOC))
	reg("auction", []string{"auc"}, "/auction <message>", "Auction message", "Chat", true, chat(Auction))
	reg("tell", []string{"t"}, "/tell <name> <message>", "Send private message", "Chat", true, p.cmdTell)
	reg("reply", []string{"r"}, "/reply <message>", "Reply to last tell", "Chat", true, p.d.ReplyToLastTell)
	reg("gsay", []string{"g"}, "/gsay <message>", "Group message", "Chat", true, chat(Group))
	reg("gu", nil, "/gu <message>", "Guild message", "Chat", true, chat(Guild))
	reg("emote", []string{"em", "me"}, "/emote <action>", "Perform an emote", "Chat", true, p.cmdEmote)
	reg("filter", nil, "/filter [channel]", "Toggle channel display", "Chat", false, p.cmdFilter)
	for _, name := range []string{"wave", "dance", "cheer", "laugh"} {
		reg(name, nil, "/"+name, strings.ToUpper(name[:1])+name[1:], "Chat", false, p.animation(name))
	}

	// Movement
	reg("loc", nil, "/loc", "Show current location", "Movement", false, p.cmdLoc)
	reg("sit", nil, "/sit", "Sit down", "Movement", false, noArgs(p.d.Sit))
	reg("stand", nil, "/stand", "Stand up", "Movement", false, noArgs(p.d.Stand))
	reg("camp", nil, "/camp", "Sit down and logout after 30 seconds", "Movement", false, noArgs(p.d.StartCamp))
	reg("move", nil, "/move <x> <y> <z>", "Move to coordinates", "Movement", true, p.cmdMove)
	reg("moveto", nil, "/moveto <name>", "Move to entity", "Movement", true, p.cmdMoveTo)
	reg("follow", nil, "/follow [name]", "Follow entity or accept group invite", "Movement", false, p.cmdFollow)
	reg("stopfollow", nil, "/stopfollow", "Stop following", "Movement", false, noArgs(p.d.StopFollow))
	reg("face", nil, "/face <name|x y z>", "Face entity or location", "Movement", false, p.cmdFace)
	reg("walk", nil, "/walk", "Set movement speed to walk", "Movement", false, p.movementMode(types.MoveWalk, "walk"))
	reg("run", nil, "/run", "Set movement speed to run", "Movement", false, p.movementMode(types.MoveRun, "run"))
	reg("sneak", nil, "/sneak", "Set movement speed to sneak", "Movement", false, p.movementMode(types.MoveSneak, "sneak"))
	reg("crouch", []string{"duck"}, "/crouch", "Crouch/duck", "Movement", false,
		p.posture(types.PosCrouching, "Character is now crouching"))
	reg("feign", []string{"fd"}, "/feign", "Feign death", "Movement", false,
		p.posture(types.PosFeignDeath, "Character is feigning death"))
	reg("jump", nil, "/jump", "Jump", "Movement", false, p.cmdJump)
	reg("turn", nil, "/turn <degrees>", "Turn to heading (0=N, 90=E, 180=S, 270=W)", "Movement", true, p.cmdTurn)

	// Combat
	reg("target", []string{"tar"}, "/target <name>", "Target entity by name", "Combat", false, p.cmdTarget)
	reg("attack", []string{"a"}, "/attack", "Start attacking target", "Combat", false, noArgs(p.d.EnableAutoAttack))
	reg("stopattack", nil, "/stopattack", "Stop attacking", "Combat", false, noArgs(p.d.DisableAutoAttack))
	reg("aa", nil, "/aa", "Toggle auto-attack", "Combat", false, noArgs(p.d.ToggleAutoAttack))
	reg("cast", nil, "/cast <gem#>", "Cast spell from gem slot", "Combat", true, p.cmdCast)
	reg("interrupt", nil, "/interrupt", "Interrupt current cast", "Combat", false, noArgs(p.d.InterruptCast))
	reg("consider", []string{"con"}, "/consider", "Consider current target", "Combat", false, noArgs(p.d.Consider))
	reg("hail", nil, "/hail", "Hail target or say Hail", "Combat", false, p.cmdHail)
	reg("loot", nil, "/loot", "Loot nearest corpse", "Combat", false, noArgs(p.d.LootNearestCorpse))

	// Group
	reg("invite", []string{"inv"}, "/invite [name]", "Invite to group", "Group", false, p.cmdInvite)
	reg("disband", nil, "/disband", "Leave group", "Group", false, noArgs(p.d.LeaveGroup))
	reg("decline", nil, "/decline", "Decline group invite", "Group", false, noArgs(p.d.DeclineGroupInvite))

	// Spells
	reg("skills", nil, "/skills", "Toggle skills window", "Spells", false, p.cmdSkills)
	reg("gems", nil, "/gems", "Show memorized spells", "Spells", false, p.cmdGems)
	reg("mem", nil, "/mem <gem#> <spell>", "Memorize spell to gem slot", "Spells", true, p.cmdMem)
	reg("forget", nil, "/forget <gem#>", "Forget spell from gem slot", "Spells", true, p.cmdForget)

	reg("pet", nil, "/pet <command>",
		"Issue pet command (attack, back, follow, guard, sit, taunt, hold, focus, health, dismiss)",
		"Pet", false, p.cmdPet)

	// Utility
	reg("who", nil, "/who", "List nearby entities", "Utility", false, p.cmdWho)
	reg("list", nil, "/list [search]", "List nearby entities", "Utility", false, p.cmdList)
	reg("help", []string{"?"}, "/help [command]", "Show help", "Utility", false, p.cmdHelp)
	reg("quit", nil, "/quit", "Show exit options", "Utility", false, p.cmdQuit)
	reg("q", nil, "/q", "Exit immediately", "Utility", false, p.cmdExit)
	reg("debug", nil, "/debug <level>", "Set debug level (0-6)", "Utility", true, p.cmdDebug)
	reg("timestamp", []string{"ts"}, "/timestamp", "Toggle chat timestamps", "Utility", false, p.cmdTimestamp)
	reg("door", []string{"u"}, "/door", "Interact with nearest door", "Utility", false, noArgs(p.d.ClickNearestDoor))
	reg("afk", nil, "/afk", "Toggle AFK status", "Utility", false, noArgs(p.d.ToggleAFK))
	reg("anon", nil, "/anon", "Toggle anonymous status", "Utility", false, p.cmdAnon)
	reg("roleplay", []string{"rp"}, "/roleplay [on|off]", "Toggle roleplay status", "Utility", false, p.cmdRoleplay)
	reg("logonly", nil, "/logonly [MOD1,MOD2,...]", "Whitelist log modules (suppress all others)", "Utility", false, p.cmdLogOnly)
	reg("logexclude", nil, "/logexclude [MOD1,MOD2,...]", "Blacklist log modules", "Utility", false, p.cmdLogExclude)
	reg("logmodule", nil, "/logmodule <MOD:LEVEL>", "Set a module's log level", "Utility", false, p.cmdLogModule)
	reg("logclear", nil, "/logclear", "Clear all module log filters", "Utility", false, p.cmdLogClear)
}

func noArgs(fn func() Result) CommandFunc {
	return func(string) Result { return fn() }
}

// Chat

func (p *CommandProcessor) cmdTell(args string) Result {
	target, msg := parser.SplitFirst(args)
	if target == "" || msg == "" {
		return Failure("Usage: /tell <name> <message>")
	}
	return p.d.SendTell(target, msg)
}

func (p *CommandProcessor) cmdEmote(args string) Result {
	name := strings.ToLower(strings.TrimSpace(args))
	if _, ok := emoteAnimations[name]; ok {
		return p.animation(name)("")
	}
	return p.d.SendChatMessage(Emote, args)
}

func (p *CommandProcessor) animation(name string) CommandFunc {
	anim := emoteAnimations[name]
	return func(string) Result {
		r := p.d.SendAnimation(anim, DefaultAnimationSpeed)
		if r.Success {
			p.display("You " + name)
		}
		return r
	}
}

func (p *CommandProcessor) cmdFilter(args string) Result {
	if args == "" {
		p.display("Usage: /filter <channel>")
		p.display("Channels: say, tell, group, guild, shout, auction, ooc, emote, combat, exp, loot, npc, all")
		return Ok
	}
	if f, ok := p.out.(ChannelFilterOutput); ok {
		ch := strings.ToLower(strings.TrimSpace(args))
		if f.ToggleChannel(ch) {
			p.display("Showing channel: " + ch)
		} else {
			p.display("Hiding channel: " + ch)
		}
		return Ok
	}
	p.display("Filter toggled for: " + args)
	return Ok
}

// Movement

func (p *CommandProcessor) cmdLoc(string) Result {
	x, y, z := p.gs.PlayerPosition()
	p.display(fmt.Sprintf("Your location is %.2f, %.2f, %.2f", x, y, z))
	return Ok
}

func (p *CommandProcessor) cmdMove(args string) Result {
	fields := parser.Fields(args)
	if len(fields) < 3 {
		return Failure("Usage: /move <x> <y> <z>")
	}
	xyz, err := parser.Floats(fields, 3)
	if err != nil {
		return Failure("Invalid coordinates")
	}
	return p.d.MoveToLocation(xyz[0], xyz[1], xyz[2])
}

func (p *CommandProcessor) cmdMoveTo(args string) Result {
	if args == "" {
		return Failure("Usage: /moveto <name>")
	}
	return p.d.MoveToEntity(args)
}

// cmdFollow with no name accepts a pending group invite.
func (p *CommandProcessor) cmdFollow(args string) Result {
	if args == "" {
		if p.gs.Group().HasPendingInvite() {
			return p.d.AcceptGroupInvite()
		}
		return Failure("Usage: /follow <name> or use to accept group invite")
	}
	return p.d.FollowEntity(args)
}

func (p *CommandProcessor) cmdFace(args string) Result {
	if args == "" {
		return Failure("Usage: /face <name> or /face <x> <y> <z>")
	}
	if fields := parser.Fields(args); len(fields) >= 3 {
		if xyz, err := parser.Floats(fields, 3); err == nil {
			return p.d.FaceLocation(xyz[0], xyz[1], xyz[2])
		}
	}
	return p.d.FaceEntity(args)
}

func (p *CommandProcessor) movementMode(mode types.MovementMode, name string) CommandFunc {
	return func(string) Result {
		r := p.d.SetMovementMode(mode)
		if r.Success {
			p.display("Movement mode set to " + name)
		}
		return r
	}
}

func (p *CommandProcessor) posture(pos types.PositionState, msg string) CommandFunc {
	return func(string) Result {
		r := p.d.SetPositionState(pos)
		if r.Success {
			p.display(msg)
		}
		return r
	}
}

func (p *CommandProcessor) cmdJump(string) Result {
	r := p.d.Jump()
	if r.Success {
		p.display("Character jumps!")
	}
	return r
}

func (p *CommandProcessor) cmdTurn(args string) Result {
	deg, err := parser.Float(args)
	if err != nil {
		return Failure("Invalid heading value")
	}
	r := p.d.SetHeading(deg)
	if r.Success {
		p.display(fmt.Sprintf("Turned to heading %.1f degrees", deg))
	}
	return r
}

// Combat

func (p *CommandProcessor) cmdTarget(args string) Result {
	if args == "" {
		return p.d.TargetNearest()
	}
	return p.d.TargetEntityByName(args)
}

// parseGem reads a 1-12 gem number.
func parseGem(arg string) (uint8, Result, bool) {
	gem, err := parser.Int(arg)
	if err != nil {
		return 0, Failure("Invalid gem slot"), false
	}
	if gem < MinGemSlot || gem > MaxGemSlot {
		return 0, Failure("Gem slot must be 1-12"), false
	}
	return uint8(gem), Ok, true
}

func (p *CommandProcessor) cmdCast(args string) Result {
	if args == "" {
		return Failure("Usage: /cast <gem#>")
	}
	gem, r, ok := parseGem(args)
	if !ok {
		return r
	}
	return p.d.CastSpell(gem)
}

func (p *CommandProcessor) cmdHail(string) Result {
	if p.gs.Combat().HasTarget() {
		return p.d.HailTarget()
	}
	return p.d.Hail()
}

// Group

func (p *CommandProcessor) cmdInvite(args string) Result {
	if args == "" {
		return p.d.InviteTarget()
	}
	return p.d.InviteToGroup(args)
}

// Spells

func (p *CommandProcessor) cmdSkills(string) Result {
	p.display("Skills window toggled")
	return Ok
}

var gemStateNames = map[types.SpellGemState]string{
	types.GemEmpty:            "empty",
	types.GemReady:            "ready",
	types.GemCasting:          "casting",
	types.GemRefresh:          "refreshing",
	types.GemMemorizeProgress: "memorizing",
}

func (p *CommandProcessor) spellName(id uint32) string {
	if p.spells != nil {
		if n := p.spells.SpellName(id); n != "" {
			return n
		}
	}
	return fmt.Sprintf("spell #%d", id)
}

func (p *CommandProcessor) cmdGems(string) Result {
	spells := p.gs.Spells()
	p.display("=== Memorized Spells ===")
	for g := uint8(0); g < state.SpellGemCount; g++ {
		if !spells.HasSpellMemorized(g) {
			p.display(fmt.Sprintf("Gem %d: empty", g+1))
			continue
		}
		line := fmt.Sprintf("Gem %d: %s (%s)", g+1, p.spellName(spells.GemSpellID(g)), gemStateNames[spells.GemState(g)])
		if spells.GemState(g) == types.GemRefresh {
			line += fmt.Sprintf(" %.1fs", float64(spells.GemCooldownRemaining(g))/1000)
		}
		p.display(line)
	}
	return Ok
}

// cmdMem takes a spell id or, with a catalog attached, a spell name.
func (p *CommandProcessor) cmdMem(args string) Result {
	gemArg, spell := parser.SplitFirst(args)
	if spell == "" {
		return Failure("Usage: /mem <gem#> <spell_name>")
	}
	gem, r, ok := parseGem(gemArg)
	if !ok {
		return r
	}

	var id uint32
	if n, err := strconv.ParseUint(spell, 10, 32); err == nil {
		id = uint32(n)
	} else if p.spells != nil {
		if id, ok = p.spells.SpellByName(spell); !ok {
			return Failure("Unknown spell: " + spell)
		}
	} else {
		return Failure("Unknown spell: " + spell)
	}

	r = p.d.MemorizeSpell(gem, id)
	if r.Success {
		p.display(fmt.Sprintf("Memorizing %s to gem %d", p.spellName(id), gem))
	}
	return r
}

func (p *CommandProcessor) cmdForget(args string) Result {
	if args == "" {
		return Failure("Usage: /forget <gem#>")
	}
	gem, r, ok := parseGem(args)
	if !ok {
		return r
	}
	return p.d.ForgetSpell(gem)
}

// Pet

func (p *CommandProcessor) cmdPet(args string) Result {
	if args == "" {
		p.display("Usage: /pet <command>")
		p.display("Commands: attack, back, follow, guard, sit, taunt, hold, focus, health, dismiss")
		return Ok
	}
	switch strings.ToLower(strings.TrimSpace(args)) {
	case "attack":
		return p.d.PetAttack()
	case "back", "backoff":
		return p.d.PetBackOff()
	case "follow", "followme":
		return p.d.PetFollow()
	case "guard", "guardhere":
		return p.d.PetGuard()
	case "sit":
		return p.d.PetSit()
	case "taunt":
		return p.d.PetTaunt()
	case "hold":
		return p.d.PetHold()
	case "focus":
		return p.d.PetFocus()
	case "health":
		return p.d.PetHealth()
	case "dismiss", "getlost":
		return p.d.DismissPet()
	}
	return Failure("Unknown pet command: " + args)
}

// Utility

func (p *CommandProcessor) cmdWho(string) Result {
	x, y, z := p.gs.PlayerPosition()
	ents := p.gs.Entities()
	ids := ents.EntitiesInRange(x, y, z, WhoRadius)

	p.display("=== Nearby Entities ===")
	for _, id := range ids {
		if e := ents.GetEntity(id); e != nil {
			p.display(fmt.Sprintf("%s (Level %d)", e.Name, e.Level))
		}
	}
	p.display(fmt.Sprintf("Total: %d", len(ids)))
	return Ok
}

var kindNames = map[types.EntityKind]string{
	types.KindPlayer:       "PC",
	types.KindNPC:          "NPC",
	types.KindPlayerCorpse: "PC corpse",
	types.KindNPCCorpse:    "NPC corpse",
}

// cmdList lists every entity in the zone by distance, optionally filtered
// by a name fragment.
func (p *CommandProcessor) cmdList(args string) Result {
	x, y, z := p.gs.PlayerPosition()
	search := strings.TrimSpace(args)

	var found []*state.Entity
	for _, e := range p.gs.Entities().All() {
		if e.SpawnID == p.gs.Player().SpawnID() {
			continue
		}
		if search != "" && !matchesName(e, search) {
			continue
		}
		found = append(found, e)
	}
	slices.SortStableFunc(found, func(a, b *state.Entity) int {
		da, db := a.DistanceTo(x, y, z), b.DistanceTo(x, y, z)
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		return 0
	})

	p.display("=== Entities ===")
	for _, e := range found {
		p.display(fmt.Sprintf("[%d] %s (Level %d %s) %.1f away",
			e.SpawnID, e.DisplayName(), e.Level, kindNames[e.Kind], math.Round(float64(e.DistanceTo(x, y, z))*10)/10))
	}
	p.display(fmt.Sprintf("Total: %d", len(found)))
	return Ok
}

func matchesName(e *state.Entity, search string) bool {
	s := strings.ToLower(search)
	return strings.Contains(strings.ToLower(e.Name), s) || strings.Contains(strings.ToLower(e.DisplayName()), s)
}

func (p *CommandProcessor) cmdHelp(args string) Result {
	p.Help(strings.TrimSpace(args))
	return Ok
}

func (p *CommandProcessor) cmdQuit(string) Result {
	p.display("Use /camp to safely logout, or /q to exit immediately")
	return Ok
}

func (p *CommandProcessor) cmdExit(string) Result {
	p.display("Exiting...")
	return Success(ExitMessage)
}

func (p *CommandProcessor) cmdDebug(args string) Result {
	level, err := parser.Int(args)
	if err != nil {
		return Failure("Invalid debug level")
	}
	if level < 0 || level > 6 {
		return Failure("Debug level must be 0-6")
	}
	if p.logs == nil {
		return Failure("Logging control unavailable")
	}
	name, err := p.logs.SetDebugLevel(level)
	if err != nil {
		return Failure(err.Error())
	}
	p.display(fmt.Sprintf("Debug level set to %d (%s)", level, name))
	return Ok
}

func (p *CommandProcessor) cmdTimestamp(string) Result {
	if ts, ok := p.out.(TimestampOutput); ok {
		ts.SetShowTimestamps(!ts.ShowTimestamps())
		if ts.ShowTimestamps() {
			p.display("Timestamps enabled")
		} else {
			p.display("Timestamps disabled")
		}
	}
	return Ok
}

func (p *CommandProcessor) cmdAnon(string) Result {
	return p.d.SetAnonymous(!p.gs.Player().IsAnonymous())
}

// cmdRoleplay toggles without an argument.
func (p *CommandProcessor) cmdRoleplay(args string) Result {
	if args == "" {
		return p.d.SetRoleplay(!p.gs.Player().IsRoleplay())
	}
	return p.d.SetRoleplay(parser.Toggle(args))
}

func (p *CommandProcessor) requireLogs() (LogControl, Result, bool) {
	if p.logs == nil {
		return nil, Failure("Logging control unavailable"), false
	}
	return p.logs, Ok, true
}

func (p *CommandProcessor) showModules(lc LogControl) {
	p.display(lc.Status())
	p.display("Modules: " + strings.Join(lc.Modules(), ", "))
}

func (p *CommandProcessor) cmdLogOnly(args string) Result {
	lc, r, ok := p.requireLogs()
	if !ok {
		return r
	}
	if args == "" {
		p.showModules(lc)
		p.display("Usage: /logonly MOD1,MOD2,...")
		return Ok
	}
	lc.LogOnly(args)
	p.display("Log whitelist applied: " + args)
	p.display(lc.Status())
	return Ok
}

func (p *CommandProcessor) cmdLogExclude(args string) Result {
	lc, r, ok := p.requireLogs()
	if !ok {
		return r
	}
	if args == "" {
		p.showModules(lc)
		p.display("Usage: /logexclude MOD1,MOD2,...")
		return Ok
	}
	lc.LogExclude(args)
	p.display("Log blacklist applied: " + args)
	p.display(lc.Status())
	return Ok
}

const logModuleUsage = "Usage: /logmodule MOD:LEVEL (e.g., /logmodule NET:TRACE)"

func (p *CommandProcessor) cmdLogModule(args string) Result {
	lc, r, ok := p.requireLogs()
	if !ok {
		return r
	}
	if args == "" {
		p.display(lc.Status())
		p.display(logModuleUsage)
		return Ok
	}
	if !strings.Contains(args, ":") {
		return Failure(logModuleUsage)
	}
	mod, level, err := lc.SetModuleLevel(args)
	if err != nil {
		return Failure(err.Error())
	}
	p.display("Module " + mod + " set to " + level)
	return Ok
}

func (p *CommandProcessor) cmdLogClear(string) Result {
	lc, r, ok := p.requireLogs()
	if !ok {
		return r
	}
	lc.ClearFilters()
	p.display("All module filters cleared (using global level)")
	p.display(lc.Status())
	return Ok
}
