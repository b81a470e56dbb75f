package services

import (
	"time"

	"softball-scorebook/internal/application/command"
)

// OperationResult reports one named workflow step. Pure data.
type OperationResult struct {
	Name        string   `json:"name"`
	Success     bool     `json:"success"`
	Compensated bool     `json:"compensated,omitempty"`
	Errors      []string `json:"errors,omitempty"`
}

func (r *OperationResult) IsSuccess() bool         { return r.Success }
func (r *OperationResult) ErrorMessages() []string { return r.Errors }

// TransactionResult reports an ordered multi-step operation.
type TransactionResult struct {
	Name            string             `json:"name"`
	Success         bool               `json:"success"`
	Results         []*OperationResult `json:"results"`
	RollbackApplied bool               `json:"rollback_applied,omitempty"`
	Duration        time.Duration      `json:"duration"`
	Errors          []string           `json:"errors,omitempty"`
}

func (r *TransactionResult) IsSuccess() bool         { return r.Success }
func (r *TransactionResult) ErrorMessages() []string { return r.Errors }

// RetryOutcome wraps the final result of a retried operation along with
// the number of attempts consumed.
type RetryOutcome struct {
	Result   UseCaseResult `json:"result"`
	Attempts int           `json:"attempts"`
	Errors   []string      `json:"errors,omitempty"`
}

func (r *RetryOutcome) IsSuccess() bool {
	return r.Result != nil && r.Result.IsSuccess()
}

func (r *RetryOutcome) ErrorMessages() []string {
	var msgs []string
	if r.Result != nil {
		msgs = append(msgs, r.Result.ErrorMessages()...)
	}
	return append(msgs, r.Errors...)
}

// AtBatSequenceResult aggregates everything a completed at-bat sequence
// did: the at-bat itself, an optional inning close, queued substitutions
// and an optional score notification.
type AtBatSequenceResult struct {
	Success              bool                              `json:"success"`
	GameID               string                            `json:"game_id"`
	AtBat                *command.RecordAtBatResult        `json:"at_bat,omitempty"`
	InningCloseAttempted bool                              `json:"inning_close_attempted,omitempty"`
	InningClosed         bool                              `json:"inning_closed,omitempty"`
	GameCompleted        bool                              `json:"game_completed,omitempty"`
	Substitutions        []*command.SubstitutePlayerResult `json:"substitutions,omitempty"`
	NotificationSent     bool                              `json:"notification_sent,omitempty"`
	RetryCount           int                               `json:"retry_count"`
	Duration             time.Duration                     `json:"duration"`
	Errors               []string                          `json:"errors,omitempty"`
}

func (r *AtBatSequenceResult) IsSuccess() bool         { return r.Success }
func (r *AtBatSequenceResult) ErrorMessages() []string { return r.Errors }

// GameWorkflowResult aggregates a full game workflow run.
type GameWorkflowResult struct {
	Success              bool                              `json:"success"`
	GameID               string                            `json:"game_id,omitempty"`
	Start                *command.StartNewGameResult       `json:"start,omitempty"`
	AtBatsAttempted      int                               `json:"at_bats_attempted"`
	AtBatsSucceeded      int                               `json:"at_bats_succeeded"`
	AtBatsFailed         int                               `json:"at_bats_failed"`
	SubstitutionsApplied int                               `json:"substitutions_applied"`
	Substitutions        []*command.SubstitutePlayerResult `json:"substitutions,omitempty"`
	GameCompleted        bool                              `json:"game_completed"`
	NotificationSent     bool                              `json:"notification_sent,omitempty"`
	RetryCount           int                               `json:"retry_count"`
	CompensationCount    int                               `json:"compensation_count"`
	Duration             time.Duration                     `json:"duration"`
	Errors               []string                          `json:"errors,omitempty"`
}

func (r *GameWorkflowResult) IsSuccess() bool         { return r.Success }
func (r *GameWorkflowResult) ErrorMessages() []string { return r.Errors }

// PermissionCheckResult is the structured outcome of a permission check,
// returned instead of an error so callers can branch without exception
// handling.
type PermissionCheckResult struct {
	Valid     bool   `json:"valid"`
	UserID    string `json:"user_id,omitempty"`
	Operation string `json:"operation"`
	Reason    string `json:"reason,omitempty"`
}
