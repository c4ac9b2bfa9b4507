package db

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/udisondev/spellcore/internal/game/spell"
)

const (
	defaultWriterQueue   = 1024
	defaultWriterBatch   = 64
	defaultWriterFlush   = time.Second
	shutdownFlushTimeout = 5 * time.Second
)

// SpellSaver persists a batch of learned spells.
type SpellSaver interface {
	AddSpells(ctx context.Context, rows []SpellRow) error
}

// WriterConfig tunes a SpellWriter. Zero values take defaults.
type WriterConfig struct {
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
}

// SpellWriter — write-behind очередь изученных заклинаний.
//
// SaveSpell вызывается из тика симуляции и никогда не блокирует: строка
// кладётся в буферизованный канал, а Run пишет накопленное пачками.
type SpellWriter struct {
	saver SpellSaver
	queue chan SpellRow

	batchSize     int
	flushInterval time.Duration

	dropped atomic.Int64
	saved   atomic.Int64
}

// NewSpellWriter creates a writer flushing to saver.
func NewSpellWriter(saver SpellSaver, cfg WriterConfig) *SpellWriter {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultWriterQueue
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultWriterBatch
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = defaultWriterFlush
	}
	return &SpellWriter{
		saver:         saver,
		queue:         make(chan SpellRow, cfg.QueueSize),
		batchSize:     cfg.BatchSize,
		flushInterval: cfg.FlushInterval,
	}
}

var _ spell.SpellStore = (*SpellWriter)(nil)

// SaveSpell queues a learned spell. A full queue drops the row with a warning.
func (w *SpellWriter) SaveSpell(owner uint64, spellID uint32) {
	select {
	case w.queue <- SpellRow{Owner: owner, SpellID: spellID}:
	default:
		w.dropped.Add(1)
		slog.Warn("spell writer queue full, dropping", "player", owner, "spell", spellID)
	}
}

// Dropped returns the number of rows lost to a full queue.
func (w *SpellWriter) Dropped() int64 {
	return w.dropped.Load()
}

// Saved returns the number of rows flushed successfully.
func (w *SpellWriter) Saved() int64 {
	return w.saved.Load()
}

// Run flushes queued rows every flush interval or once a batch is full.
// On cancellation it drains the queue and flushes once more before returning.
func (w *SpellWriter) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.flushInterval)
	defer ticker.Stop()

	batch := make([]SpellRow, 0, w.batchSize)
	for {
		select {
		case row := <-w.queue:
			batch = append(batch, row)
			if len(batch) >= w.batchSize {
				batch = w.flush(ctx, batch)
			}

		case <-ticker.C:
			batch = w.flush(ctx, batch)

		case <-ctx.Done():
			batch = w.drain(batch)
			flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownFlushTimeout)
			w.flush(flushCtx, batch)
			cancel()
			return nil
		}
	}
}

func (w *SpellWriter) drain(batch []SpellRow) []SpellRow {
	for {
		select {
		case row := <-w.queue:
			batch = append(batch, row)
		default:
			return batch
		}
	}
}

// flush writes batch and returns it emptied. Failed rows are logged and dropped.
func (w *SpellWriter) flush(ctx context.Context, batch []SpellRow) []SpellRow {
	if len(batch) == 0 {
		return batch
	}
	if err := w.saver.AddSpells(ctx, batch); err != nil {
		w.dropped.Add(int64(len(batch)))
		slog.Error("flushing learned spells", "rows", len(batch), "error", err)
		return batch[:0]
	}
	w.saved.Add(int64(len(batch)))
	slog.Debug("learned spells flushed", "rows", len(batch))
	return batch[:0]
}
