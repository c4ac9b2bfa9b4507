package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/spellcore/internal/game/spell"
)

// SpellRow is one learned spell of a character.
type SpellRow struct {
	Owner   uint64
	SpellID uint32
}

// SpellRepository хранит книгу заклинаний персонажей.
type SpellRepository struct {
	db *pgxpool.Pool
}

// NewSpellRepository создаёт новый SpellRepository.
func NewSpellRepository(db *pgxpool.Pool) *SpellRepository {
	return &SpellRepository{db: db}
}

var _ spell.SpellLoader = (*SpellRepository)(nil)

// KnownSpells загружает книгу заклинаний персонажа, упорядоченную по spell id.
func (r *SpellRepository) KnownSpells(ctx context.Context, owner uint64) ([]spell.KnownSpell, error) {
	query := `
		SELECT spell_id, button
		FROM character_spells
		WHERE character_guid = $1
		ORDER BY spell_id
	`

	rows, err := r.db.Query(ctx, query, int64(owner))
	if err != nil {
		return nil, fmt.Errorf("querying spells for character %d: %w", owner, err)
	}
	defer rows.Close()

	spells := make([]spell.KnownSpell, 0, 32)
	for rows.Next() {
		var (
			spellID int32
			button  int16
		)
		if err := rows.Scan(&spellID, &button); err != nil {
			return nil, fmt.Errorf("scanning spell row: %w", err)
		}
		spells = append(spells, spell.KnownSpell{SpellID: uint32(spellID), Button: button})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating spell rows: %w", err)
	}
	return spells, nil
}

const insertSpell = `
	INSERT INTO character_spells (character_guid, spell_id)
	VALUES ($1, $2)
	ON CONFLICT (character_guid, spell_id) DO NOTHING
`

// AddSpell добавляет одно заклинание. Повторное добавление ничего не меняет.
func (r *SpellRepository) AddSpell(ctx context.Context, owner uint64, spellID uint32) error {
	if _, err := r.db.Exec(ctx, insertSpell, int64(owner), int32(spellID)); err != nil {
		return fmt.Errorf("inserting spell %d for character %d: %w", spellID, owner, err)
	}
	return nil
}

// AddSpells добавляет пачку заклинаний одним batch-запросом в транзакции.
func (r *SpellRepository) AddSpells(ctx context.Context, rows []SpellRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback failed", "rows", len(rows), "error", err)
		}
	}()

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(insertSpell, int64(row.Owner), int32(row.SpellID))
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("inserting %d spells: %w", len(rows), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing spells: %w", err)
	}
	return nil
}

// SetButton привязывает заклинание к кнопке панели действий.
func (r *SpellRepository) SetButton(ctx context.Context, owner uint64, spellID uint32, button int16) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE character_spells SET button = $3 WHERE character_guid = $1 AND spell_id = $2`,
		int64(owner), int32(spellID), button,
	)
	if err != nil {
		return fmt.Errorf("setting button of spell %d for character %d: %w", spellID, owner, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("spell %d of character %d: %w", spellID, owner, ErrSpellNotFound)
	}
	return nil
}

// DeleteSpell удаляет одно заклинание.
func (r *SpellRepository) DeleteSpell(ctx context.Context, owner uint64, spellID uint32) error {
	query := `DELETE FROM character_spells WHERE character_guid = $1 AND spell_id = $2`

	if _, err := r.db.Exec(ctx, query, int64(owner), int32(spellID)); err != nil {
		return fmt.Errorf("deleting spell %d for character %d: %w", spellID, owner, err)
	}
	return nil
}
