package gameserver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/udisondev/spellcore/internal/game/spell"
	"github.com/udisondev/spellcore/internal/gameserver/clientpackets"
	"github.com/udisondev/spellcore/internal/model"
)

// World is the simulation behind the network layer.
//
// Submit queues fn to run on the simulation goroutine with the player's actor;
// it is the only way a connection touches a SpellManager.
type World interface {
	EnterWorld(ctx context.Context, guid uint64) error
	LeaveWorld(guid uint64)
	Submit(guid uint64, fn func(spell.SpellCaster)) error
	FindUnit(guid uint64) (spell.Unit, bool)
	FindObject(guid uint64) (spell.Usable, bool)
	Move(guid uint64, loc model.Location) error
	RespondDuel(guid uint64, accept bool) error
}

type itemFinder interface {
	ItemByGUID(guid uint64) *model.Item
	ItemAt(slot int) *model.Item
}

// Handler dispatches client packets of in-world players.
type Handler struct {
	world World
}

// NewHandler creates a handler submitting commands to world.
func NewHandler(world World) *Handler {
	return &Handler{world: world}
}

// HandlePacket decodes one client packet and queues the command it carries.
// An error means the client is misbehaving and must be disconnected.
func (h *Handler) HandlePacket(guid uint64, opcode uint16, payload []byte) error {
	switch opcode {
	case clientpackets.OpcodeCastSpell:
		return h.handleCastSpell(guid, payload)
	case clientpackets.OpcodeCancelCast:
		return h.handleCancelCast(guid, payload)
	case clientpackets.OpcodeUseItem:
		return h.handleUseItem(guid, payload)
	case clientpackets.OpcodeMoveHeartbeat:
		return h.handleMove(guid, payload)
	case clientpackets.OpcodeDuelAccepted:
		return h.handleDuelResponse(guid, payload, true)
	case clientpackets.OpcodeDuelCancelled:
		return h.handleDuelResponse(guid, payload, false)
	default:
		slog.Debug("unhandled opcode", "player", guid, "opcode", fmt.Sprintf("0x%03X", opcode), "size", len(payload))
		return nil
	}
}

func (h *Handler) handleCastSpell(guid uint64, payload []byte) error {
	req, err := clientpackets.ParseCastSpell(payload)
	if err != nil {
		return fmt.Errorf("parsing cast spell: %w", err)
	}

	return h.world.Submit(guid, func(caster spell.SpellCaster) {
		mgr := caster.SpellManager()
		if !mgr.Knows(req.SpellID) {
			slog.Debug("cast of unknown spell", "player", guid, "spell", req.SpellID)
			return
		}
		mgr.HandleCastAttempt(req.SpellID, h.resolveTarget(caster, req), spell.TargetMask(req.TargetMask))
	})
}

// resolveTarget turns the target named by a request into a live Target.
// Targets that cannot be found resolve to the zero Target.
func (h *Handler) resolveTarget(caster spell.SpellCaster, req *clientpackets.CastSpell) spell.Target {
	mask := spell.TargetMask(req.TargetMask)
	switch {
	case mask == spell.TargetMaskSelf:
		return spell.UnitTarget(caster)
	case mask.Has(spell.TargetMaskUnit | spell.TargetMaskCorpse):
		if u, ok := h.world.FindUnit(req.TargetGUID); ok {
			return spell.UnitTarget(u)
		}
	case mask.Has(spell.TargetMaskGameObject):
		if o, ok := h.world.FindObject(req.TargetGUID); ok {
			return spell.ObjectTarget(o)
		}
	case mask.Has(spell.TargetMaskItem):
		if inv := inventoryOf(caster); inv != nil {
			return spell.ItemTarget(inv.ItemByGUID(req.TargetGUID))
		}
	case mask.Has(spell.TargetMaskLocation):
		return spell.PointTarget(model.NewLocation(req.X, req.Y, req.Z, 0))
	}
	return spell.Target{}
}

func (h *Handler) handleCancelCast(guid uint64, payload []byte) error {
	req, err := clientpackets.ParseCancelCast(payload)
	if err != nil {
		return fmt.Errorf("parsing cancel cast: %w", err)
	}

	return h.world.Submit(guid, func(caster spell.SpellCaster) {
		caster.SpellManager().CancelCast(req.SpellID)
	})
}

func (h *Handler) handleUseItem(guid uint64, payload []byte) error {
	req, err := clientpackets.ParseUseItem(payload)
	if err != nil {
		return fmt.Errorf("parsing use item: %w", err)
	}
	if req.Bag != clientpackets.BackpackBag {
		slog.Debug("use item from unsupported bag", "player", guid, "bag", req.Bag)
		return nil
	}

	return h.world.Submit(guid, func(caster spell.SpellCaster) {
		inv := inventoryOf(caster)
		if inv == nil {
			return
		}
		it := inv.ItemAt(int(req.Slot))
		if it == nil {
			slog.Debug("use of empty slot", "player", guid, "slot", req.Slot)
			return
		}
		caster.SpellManager().HandleItemCastAttempt(it)
	})
}

func (h *Handler) handleMove(guid uint64, payload []byte) error {
	req, err := clientpackets.ParseMoveHeartbeat(payload)
	if err != nil {
		return fmt.Errorf("parsing move heartbeat: %w", err)
	}
	return h.world.Move(guid, model.NewLocation(req.X, req.Y, req.Z, req.O))
}

func (h *Handler) handleDuelResponse(guid uint64, payload []byte, accept bool) error {
	if _, err := clientpackets.ParseDuelResponse(payload); err != nil {
		return fmt.Errorf("parsing duel response: %w", err)
	}
	return h.world.RespondDuel(guid, accept)
}

func inventoryOf(u spell.Unit) itemFinder {
	p, ok := u.(spell.Player)
	if !ok {
		return nil
	}
	inv, _ := p.Inventory().(itemFinder)
	return inv
}
