package command

import (
	"context"
	"sync"
	"time"
)

// ActionEntry records one executed game action. Undoable actions carry an
// Undo closure emitting compensating events; Redo re-applies the action.
// Entries with a nil Undo are kept so the history stays complete, but
// UndoLastAction reports them as not undoable.
type ActionEntry struct {
	Name       string
	GameID     string
	OccurredAt time.Time
	Undo       func(ctx context.Context) error
	Redo       func(ctx context.Context) error
}

// ActionHistory keeps per-game undo and redo stacks. Recording a new
// action clears the redo stack, matching the usual editor semantics.
type ActionHistory struct {
	mutex sync.Mutex
	undo  map[string][]*ActionEntry
	redo  map[string][]*ActionEntry
}

func NewActionHistory() *ActionHistory {
	return &ActionHistory{
		undo: make(map[string][]*ActionEntry),
		redo: make(map[string][]*ActionEntry),
	}
}

// Record pushes an executed action onto the undo stack.
func (h *ActionHistory) Record(entry *ActionEntry) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.undo[entry.GameID] = append(h.undo[entry.GameID], entry)
	h.redo[entry.GameID] = nil
}

// PopUndo removes and returns the most recent action for a game.
func (h *ActionHistory) PopUndo(gameID string) (*ActionEntry, bool) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	stack := h.undo[gameID]
	if len(stack) == 0 {
		return nil, false
	}
	entry := stack[len(stack)-1]
	h.undo[gameID] = stack[:len(stack)-1]
	return entry, true
}

// PushUndo returns an entry to the undo stack, used when an undo attempt
// fails and the action should stay current.
func (h *ActionHistory) PushUndo(entry *ActionEntry) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.undo[entry.GameID] = append(h.undo[entry.GameID], entry)
}

// PopRedo removes and returns the most recently undone action for a game.
func (h *ActionHistory) PopRedo(gameID string) (*ActionEntry, bool) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	stack := h.redo[gameID]
	if len(stack) == 0 {
		return nil, false
	}
	entry := stack[len(stack)-1]
	h.redo[gameID] = stack[:len(stack)-1]
	return entry, true
}

// PushRedo places an undone action onto the redo stack.
func (h *ActionHistory) PushRedo(entry *ActionEntry) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.redo[entry.GameID] = append(h.redo[entry.GameID], entry)
}

// UndoDepth reports how many actions are undoable for a game.
func (h *ActionHistory) UndoDepth(gameID string) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.undo[gameID])
}

// RedoDepth reports how many undone actions can be re-applied.
func (h *ActionHistory) RedoDepth(gameID string) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.redo[gameID])
}
