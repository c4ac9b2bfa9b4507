package gameserver

import (
	"log/slog"
	"time"

	"github.com/udisondev/spellcore/internal/game/spell"
	"github.com/udisondev/spellcore/internal/gameserver/serverpackets"
	"github.com/udisondev/spellcore/internal/model"
)

// DefaultVisibilityRange is how far cast animations are broadcast.
const DefaultVisibilityRange float32 = 100

// PacketNotifier turns spell notifications into packets.
// Cast start/go go to every player around the caster; the rest go to the caster only.
type PacketNotifier struct {
	sessions   *SessionManager
	spatial    spell.Spatial
	visibility float32
}

// NewPacketNotifier creates a notifier. visibility <= 0 uses DefaultVisibilityRange.
func NewPacketNotifier(sessions *SessionManager, spatial spell.Spatial, visibility float32) *PacketNotifier {
	if visibility <= 0 {
		visibility = DefaultVisibilityRange
	}
	return &PacketNotifier{sessions: sessions, spatial: spatial, visibility: visibility}
}

var _ spell.Notifier = (*PacketNotifier)(nil)

// CastStart broadcasts the cast bar.
func (n *PacketNotifier) CastStart(c *spell.Cast) {
	pkt := &serverpackets.SpellStart{
		SourceGUID: c.Caster.GUID(),
		CasterGUID: c.Caster.GUID(),
		SpellID:    c.SpellID(),
		Flags:      uint16(c.Flags),
		CastTimeMs: int32(c.CastTime().Milliseconds()),
		Targets:    targetInfo(c),
		Ammo:       ammoInfo(c),
	}
	n.broadcast(c.Caster, pkt, c.Player() != nil)
}

// CastGo broadcasts the cast firing with its per-target outcome.
func (n *PacketNotifier) CastGo(c *spell.Cast) {
	pkt := &serverpackets.SpellGo{
		SourceGUID: c.Caster.GUID(),
		CasterGUID: c.Caster.GUID(),
		SpellID:    c.SpellID(),
		Flags:      uint16(c.Flags),
		Targets:    targetInfo(c),
		Ammo:       ammoInfo(c),
	}
	for _, g := range c.Results.Groups() {
		if g.Reason == spell.MissNone {
			pkt.Hits = g.GUIDs
			continue
		}
		pkt.Misses = append(pkt.Misses, serverpackets.MissGroup{Reason: uint8(g.Reason), GUIDs: g.GUIDs})
	}
	n.broadcast(c.Caster, pkt, c.Player() != nil)
}

// CastResult tells the caster the outcome of a cast attempt.
func (n *PacketNotifier) CastResult(caster spell.Unit, spellID uint32, result spell.CastResult) {
	if result == spell.ResultOK {
		n.send(caster, serverpackets.NewCastSuccess(spellID))
		return
	}
	n.send(caster, serverpackets.NewCastFailure(spellID, uint8(result)))
}

// CooldownSet starts the client cooldown timer.
func (n *PacketNotifier) CooldownSet(caster spell.Unit, spellID uint32, length time.Duration) {
	n.send(caster, &serverpackets.SpellCooldown{
		SpellID:  spellID,
		GUID:     caster.GUID(),
		LengthMs: uint32(length.Milliseconds()),
	})
}

// CooldownCleared ends the client cooldown timer.
func (n *PacketNotifier) CooldownCleared(caster spell.Unit, spellID uint32) {
	n.send(caster, &serverpackets.ClearCooldown{SpellID: spellID, GUID: caster.GUID()})
}

// ChannelStart opens the channel bar.
func (n *PacketNotifier) ChannelStart(caster spell.Unit, spellID uint32, duration time.Duration) {
	n.send(caster, &serverpackets.ChannelStart{SpellID: spellID, DurationMs: uint32(duration.Milliseconds())})
}

// ChannelUpdate moves the channel bar.
func (n *PacketNotifier) ChannelUpdate(caster spell.Unit, remaining time.Duration) {
	n.send(caster, &serverpackets.ChannelUpdate{RemainingMs: uint32(max(remaining, 0).Milliseconds())})
}

// LearnedSpell adds the spell to the client spellbook.
func (n *PacketNotifier) LearnedSpell(caster spell.Unit, spellID uint32) {
	n.send(caster, &serverpackets.LearnedSpell{SpellID: uint16(spellID)})
}

// EquipError reports an inventory failure (full bag).
func (n *PacketNotifier) EquipError(caster spell.Unit, code model.InventoryError) {
	n.send(caster, &serverpackets.InventoryChangeFailure{Error: uint8(code)})
}

// SendInitialSpells sends the spellbook snapshot taken at login.
func (n *PacketNotifier) SendInitialSpells(guid uint64, spells []spell.KnownSpell) {
	s, ok := n.sessions.Get(guid)
	if !ok {
		return
	}
	pkt := &serverpackets.InitialSpells{Spells: make([]serverpackets.SpellButton, len(spells))}
	for i, ks := range spells {
		pkt.Spells[i] = serverpackets.SpellButton{SpellID: int16(ks.SpellID), Button: ks.Button}
	}
	if err := s.Send(pkt); err != nil {
		slog.Debug("initial spells not sent", "player", guid, "error", err)
	}
}

func (n *PacketNotifier) send(to spell.Unit, p serverpackets.Packet) {
	s, ok := n.sessions.Get(to.GUID())
	if !ok {
		return
	}
	if err := s.Send(p); err != nil {
		slog.Debug("packet not sent", "player", to.GUID(), "opcode", p.Opcode(), "error", err)
	}
}

// broadcast encodes p once and queues it to every player session near source.
func (n *PacketNotifier) broadcast(source spell.Unit, p serverpackets.Packet, includeSelf bool) int {
	frame, err := EncodeFrame(p)
	if err != nil {
		slog.Error("encoding broadcast", "source", source.GUID(), "opcode", p.Opcode(), "error", err)
		return 0
	}

	sent := 0
	selfSent := false
	for _, u := range n.spatial.UnitsInRadius(source.MapID(), source.Location(), n.visibility) {
		isSelf := u.GUID() == source.GUID()
		if isSelf && !includeSelf {
			continue
		}
		if n.sendFrame(u.GUID(), frame) {
			sent++
			selfSent = selfSent || isSelf
		}
	}

	// the caster may not be indexed at its new position yet (teleport, leap)
	if includeSelf && !selfSent && n.sendFrame(source.GUID(), frame) {
		sent++
	}
	return sent
}

func (n *PacketNotifier) sendFrame(guid uint64, frame []byte) bool {
	s, ok := n.sessions.Get(guid)
	if !ok {
		return false
	}
	if err := s.SendFrame(frame); err != nil {
		slog.Debug("broadcast not sent", "player", guid, "error", err)
		return false
	}
	return true
}

func targetInfo(c *spell.Cast) serverpackets.TargetInfo {
	t := serverpackets.TargetInfo{Mask: uint16(c.TargetMask)}
	switch c.InitialTarget.Kind {
	case spell.TargetPoint:
		t.X, t.Y, t.Z = c.InitialTarget.Point.X, c.InitialTarget.Point.Y, c.InitialTarget.Point.Z
		t.Point = true
	default:
		t.GUID = c.InitialTarget.GUID()
	}
	return t
}

func ammoInfo(c *spell.Cast) serverpackets.AmmoInfo {
	if c.Flags&spell.CastFlagHasAmmo == 0 {
		return serverpackets.AmmoInfo{}
	}
	a := c.Ammo()
	return serverpackets.AmmoInfo{DisplayID: a.DisplayID, InventoryType: a.InventoryType}
}
