package command

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// UndoLastActionHandler reverses the most recent game action by running
// its compensating closure. Actions recorded without one stay on the
// stack and are reported as not undoable.
type UndoLastActionHandler struct {
	history *ActionHistory
	logger  *zap.Logger
}

func NewUndoLastActionHandler(history *ActionHistory, logger *zap.Logger) *UndoLastActionHandler {
	return &UndoLastActionHandler{history: history, logger: logger}
}

// Execute processes the undo last action command.
func (h *UndoLastActionHandler) Execute(ctx context.Context, cmd *UndoLastAction) (*UndoResult, error) {
	if cmd == nil || cmd.GameID == "" {
		return &UndoResult{Result: failed("game_id is required")}, nil
	}

	entry, ok := h.history.PopUndo(cmd.GameID)
	if !ok {
		return &UndoResult{Result: failed("nothing to undo"), GameID: cmd.GameID}, nil
	}
	if entry.Undo == nil {
		h.history.PushUndo(entry)
		return &UndoResult{
			Result: failed(fmt.Sprintf("action %s cannot be undone", entry.Name)),
			GameID: cmd.GameID,
		}, nil
	}

	if err := entry.Undo(ctx); err != nil {
		h.history.PushUndo(entry)
		h.logger.Warn("undo failed", zap.String("action", entry.Name), zap.Error(err))
		return &UndoResult{
			Result: failed(fmt.Sprintf("failed to undo %s: %v", entry.Name, err)),
			GameID: cmd.GameID,
		}, nil
	}

	h.history.PushRedo(entry)
	return &UndoResult{
		Result:       succeeded(),
		GameID:       cmd.GameID,
		UndoneAction: entry.Name,
	}, nil
}

// RedoLastActionHandler re-applies the most recently undone action.
type RedoLastActionHandler struct {
	history *ActionHistory
	logger  *zap.Logger
}

func NewRedoLastActionHandler(history *ActionHistory, logger *zap.Logger) *RedoLastActionHandler {
	return &RedoLastActionHandler{history: history, logger: logger}
}

// Execute processes the redo last action command.
func (h *RedoLastActionHandler) Execute(ctx context.Context, cmd *RedoLastAction) (*RedoResult, error) {
	if cmd == nil || cmd.GameID == "" {
		return &RedoResult{Result: failed("game_id is required")}, nil
	}

	entry, ok := h.history.PopRedo(cmd.GameID)
	if !ok {
		return &RedoResult{Result: failed("nothing to redo"), GameID: cmd.GameID}, nil
	}
	if entry.Redo == nil {
		h.history.PushRedo(entry)
		return &RedoResult{
			Result: failed(fmt.Sprintf("action %s cannot be redone", entry.Name)),
			GameID: cmd.GameID,
		}, nil
	}

	if err := entry.Redo(ctx); err != nil {
		h.history.PushRedo(entry)
		h.logger.Warn("redo failed", zap.String("action", entry.Name), zap.Error(err))
		return &RedoResult{
			Result: failed(fmt.Sprintf("failed to redo %s: %v", entry.Name, err)),
			GameID: cmd.GameID,
		}, nil
	}

	h.history.PushUndo(entry)
	return &RedoResult{
		Result:       succeeded(),
		GameID:       cmd.GameID,
		RedoneAction: entry.Name,
	}, nil
}
