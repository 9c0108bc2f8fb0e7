package exercise

import (
	"context"
	"fmt"
	"sync"

	"vocabapp/internal/config"
	"vocabapp/internal/models"
	contextutils "vocabapp/internal/utils"
)

// DragDrop is a round where the user matches definition cards to word slots.
// The server picks the word set; the round is scored as the fraction of
// correctly filled slots.
type DragDrop struct {
	source DragDropSource

	mu        sync.Mutex
	payload   *models.DragDropPayload
	template  string
	placed    map[string]string // zone id -> item id
	pool      map[string]bool   // item ids not yet placed
	submitted bool
	closed    bool
}

// NewDragDrop creates an unloaded matching round.
func NewDragDrop(source DragDropSource) *DragDrop {
	return &DragDrop{source: source}
}

// Kind implements Controller.
func (d *DragDrop) Kind() Kind { return KindDragDrop }

// Load fetches the exercise payload and the panel template and resets the board.
func (d *DragDrop) Load(ctx context.Context) error {
	payload, err := d.source.DragDropMatch(ctx)
	if err != nil {
		return err
	}
	template, err := d.source.Partial(ctx, string(KindDragDrop))
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.payload = payload
	d.template = template
	d.placed = make(map[string]string, len(payload.DropZones))
	d.pool = make(map[string]bool, len(payload.DraggableItems))
	for _, item := range payload.DraggableItems {
		d.pool[item.ID] = true
	}
	return nil
}

// Template implements Controller.
func (d *DragDrop) Template() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.template
}

// Instruction returns the prompt text shown above the board.
func (d *DragDrop) Instruction() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.payload == nil {
		return ""
	}
	return d.payload.Instruction
}

// Items returns the definition cards still in the pool, in server order.
func (d *DragDrop) Items() []models.DraggableItem {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.payload == nil {
		return nil
	}
	items := make([]models.DraggableItem, 0, len(d.pool))
	for _, item := range d.payload.DraggableItems {
		if d.pool[item.ID] {
			items = append(items, item)
		}
	}
	return items
}

// Zones returns the word slots, in server order.
func (d *DragDrop) Zones() []models.DropZone {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.payload == nil {
		return nil
	}
	zones := make([]models.DropZone, len(d.payload.DropZones))
	copy(zones, d.payload.DropZones)
	return zones
}

// Placement returns the item currently occupying the zone, if any.
func (d *DragDrop) Placement(zoneID string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	itemID, ok := d.placed[zoneID]
	return itemID, ok
}

// Place drops an item onto a zone. An occupied zone rejects the drop and the
// item stays in the pool.
func (d *DragDrop) Place(itemID, zoneID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.answerableLocked(); err != nil {
		return err
	}
	if !d.pool[itemID] {
		return contextutils.NewAppError(contextutils.ErrorCodeValidationFailed, contextutils.SeverityWarn,
			"item is not available", itemID)
	}
	if !d.zoneExistsLocked(zoneID) {
		return contextutils.NewAppError(contextutils.ErrorCodeValidationFailed, contextutils.SeverityWarn,
			"unknown drop zone", zoneID)
	}
	if _, occupied := d.placed[zoneID]; occupied {
		return contextutils.NewAppError(contextutils.ErrorCodeValidationFailed, contextutils.SeverityWarn,
			"drop zone is already occupied", zoneID)
	}
	delete(d.pool, itemID)
	d.placed[zoneID] = itemID
	return nil
}

// Unplace removes the item from a zone, returning it to the pool.
func (d *DragDrop) Unplace(zoneID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.answerableLocked(); err != nil {
		return err
	}
	itemID, ok := d.placed[zoneID]
	if !ok {
		return contextutils.NewAppError(contextutils.ErrorCodeValidationFailed, contextutils.SeverityWarn,
			"drop zone is empty", zoneID)
	}
	delete(d.placed, zoneID)
	d.pool[itemID] = true
	return nil
}

// Complete reports whether every zone holds an item.
func (d *DragDrop) Complete() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.payload == nil {
		return false
	}
	return len(d.placed) == len(d.payload.DropZones)
}

// Submit scores the board. Accuracy is the fraction of zones holding their
// correct item; an empty board scores zero. The result key is the first
// zone's word, so the set is attributed to one record server-side.
func (d *DragDrop) Submit() (Outcome, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.answerableLocked(); err != nil {
		return Outcome{}, err
	}
	d.submitted = true

	total := len(d.payload.DropZones)
	correct := 0
	for _, zone := range d.payload.DropZones {
		if d.placed[zone.ID] == zone.CorrectDraggableID {
			correct++
		}
	}

	accuracy := 0.0
	if total > 0 {
		accuracy = float64(correct) / float64(total)
	}

	wordText := config.DragDropFallbackWord
	if total > 0 {
		wordText = d.payload.DropZones[0].Content
	}

	feedback := "All matches correct!"
	if correct != total || total == 0 {
		feedback = fmt.Sprintf("You matched %d of %d correctly.", correct, total)
	}

	return Outcome{
		Result: models.ExerciseResult{
			WordText:         wordText,
			Accuracy:         accuracy,
			TimeTakenSeconds: config.DragDropTimeTaken,
		},
		Correct:       total > 0 && correct == total,
		Feedback:      feedback,
		FeedbackDelay: config.DragDropFeedbackDelay,
	}, nil
}

// Close implements Controller.
func (d *DragDrop) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.payload = nil
	d.template = ""
	d.placed = nil
	d.pool = nil
}

func (d *DragDrop) answerableLocked() error {
	if d.closed {
		return contextutils.NewAppError(contextutils.ErrorCodeValidationFailed, contextutils.SeverityWarn,
			"exercise is closed", "")
	}
	if d.payload == nil {
		return contextutils.NewAppError(contextutils.ErrorCodeValidationFailed, contextutils.SeverityWarn,
			"exercise not loaded", "")
	}
	if d.submitted {
		return contextutils.NewAppError(contextutils.ErrorCodeValidationFailed, contextutils.SeverityWarn,
			"exercise already answered", "")
	}
	return nil
}

func (d *DragDrop) zoneExistsLocked(zoneID string) bool {
	for _, zone := range d.payload.DropZones {
		if zone.ID == zoneID {
			return true
		}
	}
	return false
}
