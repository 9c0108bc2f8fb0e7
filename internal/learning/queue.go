// Package learning implements guided learning: the user walks through a
// server-selected batch of words at a chosen difficulty level, one at a time.
package learning

import (
	"context"
	"strconv"
	"sync"

	"vocabapp/internal/config"
	"vocabapp/internal/models"
	"vocabapp/internal/observability"
	contextutils "vocabapp/internal/utils"
)

// Source fetches word batches for a difficulty level.
type Source interface {
	LearnWords(ctx context.Context, level, limit int) ([]models.WordRecord, error)
}

// Queue is one guided-learning walk. Start fetches a batch; Next advances
// through it until exhaustion, after which a new Start (or Refill) is needed.
type Queue struct {
	source Source
	logger *observability.Logger

	mu    sync.Mutex
	level int
	limit int
	words []models.WordRecord
	index int
}

// NewQueue creates an empty queue.
func NewQueue(source Source, logger *observability.Logger) *Queue {
	return &Queue{source: source, logger: logger}
}

// Start fetches a fresh batch at the given level, replacing any prior batch.
// A non-positive limit uses the default batch size. An empty batch is an
// error so the caller can tell the user rather than silently showing nothing.
func (q *Queue) Start(ctx context.Context, level, limit int) (*models.WordRecord, error) {
	if limit <= 0 {
		limit = config.DefaultLearnBatchLimit
	}
	words, err := q.source.LearnWords(ctx, level, limit)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, contextutils.NewAppError(contextutils.ErrorCodeMissingRequired, contextutils.SeverityInfo,
			"no words available at this level", "level "+strconv.Itoa(level))
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.level = level
	q.limit = limit
	q.words = words
	q.index = 0

	q.logger.Info(ctx, "Guided learning batch started", map[string]interface{}{
		"level": level,
		"count": len(words),
	})
	word := words[0]
	return &word, nil
}

// Current returns the word the user is on, or false when the queue is empty
// or exhausted.
func (q *Queue) Current() (*models.WordRecord, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.index >= len(q.words) {
		return nil, false
	}
	word := q.words[q.index]
	return &word, true
}

// Next advances to the following word. Returns false when the batch is
// exhausted; the queue stays exhausted until restarted or refilled.
func (q *Queue) Next() (*models.WordRecord, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.index >= len(q.words) {
		return nil, false
	}
	q.index++
	if q.index >= len(q.words) {
		return nil, false
	}
	word := q.words[q.index]
	return &word, true
}

// Refill fetches another batch at the current level. Fails if Start was
// never called.
func (q *Queue) Refill(ctx context.Context) (*models.WordRecord, error) {
	q.mu.Lock()
	level, limit := q.level, q.limit
	q.mu.Unlock()
	if level == 0 {
		return nil, contextutils.NewAppError(contextutils.ErrorCodeValidationFailed, contextutils.SeverityWarn,
			"guided learning has not been started", "")
	}
	return q.Start(ctx, level, limit)
}

// Remaining returns how many words are left, including the current one.
func (q *Queue) Remaining() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.index >= len(q.words) {
		return 0
	}
	return len(q.words) - q.index
}

// Level returns the difficulty level of the current batch, 0 before Start.
func (q *Queue) Level() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.level
}

// Exhausted reports whether a started batch has been walked to the end.
func (q *Queue) Exhausted() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.words) > 0 && q.index >= len(q.words)
}
