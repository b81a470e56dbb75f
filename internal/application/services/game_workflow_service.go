package services

import (
	"context"
	"fmt"
	"time"

	"softball-scorebook/internal/application/command"
)

const maxBackoff = 10 * time.Second

// CompleteAtBat drives one at-bat sequence: the plate appearance, an
// optional inning close, queued substitutions and a score notification.
type CompleteAtBat struct {
	AtBat               command.RecordAtBat
	MaxAttempts         int // retry budget for the at-bat itself; 0 or 1 means no retry
	CheckInningEnd      bool
	QueuedSubstitutions []command.SubstitutePlayer
	NotifyScore         bool
}

// CompleteGame drives a whole game workflow: start, a scripted series of
// at-bats, substitutions and a completion notification.
type CompleteGame struct {
	Start             command.StartNewGame
	AtBats            []command.RecordAtBat
	Substitutions     []command.SubstitutePlayer
	MaxAttempts       int
	ContinueOnFailure bool
}

// GameWorkflowService sequences calls into the independent use cases to
// implement compound game actions, with compensation, retry and auditing.
// It never implements domain rules itself: every rule decision happens
// inside an aggregate behind a use case.
//
// All operations on one game are expected to be serialized by the caller;
// the service holds no per-game state.
type GameWorkflowService struct {
	startGame    StartNewGameUseCase
	recordAtBat  RecordAtBatUseCase
	substitute   SubstitutePlayerUseCase
	endInning    EndInningUseCase
	undo         UndoLastActionUseCase
	redo         RedoLastActionUseCase
	logger       Logger
	notification NotificationService
	auth         AuthService
}

func NewGameWorkflowService(
	startGame StartNewGameUseCase,
	recordAtBat RecordAtBatUseCase,
	substitute SubstitutePlayerUseCase,
	endInning EndInningUseCase,
	undo UndoLastActionUseCase,
	redo RedoLastActionUseCase,
	logger Logger,
	notification NotificationService,
	auth AuthService,
) *GameWorkflowService {
	return &GameWorkflowService{
		startGame:    startGame,
		recordAtBat:  recordAtBat,
		substitute:   substitute,
		endInning:    endInning,
		undo:         undo,
		redo:         redo,
		logger:       logger,
		notification: notification,
		auth:         auth,
	}
}

// ExecuteWithCompensation runs one operation and, when it fails logically
// or faults, runs the compensation best-effort. A compensation failure is
// logged, never propagated. Infrastructure faults are returned alongside
// the marked result; logical failures come back as data only.
func (s *GameWorkflowService) ExecuteWithCompensation(ctx context.Context, name string, op Operation, compensation func(ctx context.Context) error) (*OperationResult, error) {
	result, err := op(ctx)
	if err != nil {
		s.logger.Error("operation faulted", err, map[string]interface{}{"operation": name})
		s.compensate(ctx, name, compensation)
		return &OperationResult{
			Name:        name,
			Success:     false,
			Compensated: true,
			Errors:      []string{err.Error()},
		}, err
	}
	if !result.IsSuccess() {
		s.logger.Warn("operation failed, compensating", map[string]interface{}{
			"operation": name,
			"errors":    result.ErrorMessages(),
		})
		s.compensate(ctx, name, compensation)
		return &OperationResult{
			Name:        name,
			Success:     false,
			Compensated: true,
			Errors:      result.ErrorMessages(),
		}, nil
	}
	return &OperationResult{Name: name, Success: true}, nil
}

func (s *GameWorkflowService) compensate(ctx context.Context, name string, compensation func(ctx context.Context) error) {
	if compensation == nil {
		return
	}
	if err := compensation(ctx); err != nil {
		// The system may now be inconsistent; surface loudly but do not
		// replace the original failure.
		s.logger.Error("compensation failed, manual intervention may be required", err,
			map[string]interface{}{"operation": name})
	}
}

// TransactionStep is one ordered step of ExecuteInTransaction.
type TransactionStep struct {
	Name     string
	Run      Operation
	Rollback func(ctx context.Context) error
}

// ExecuteInTransaction runs steps strictly in order and stops on the
// first logical failure or fault. Already-successful steps are rolled
// back in reverse order, best-effort; rollback problems are logged and do
// not change the reported failure.
func (s *GameWorkflowService) ExecuteInTransaction(ctx context.Context, name string, steps []TransactionStep) *TransactionResult {
	started := time.Now()
	tx := &TransactionResult{Name: name, Success: true}

	for i, step := range steps {
		result, err := step.Run(ctx)
		if err != nil {
			s.logger.Error("transaction step faulted", err, map[string]interface{}{
				"transaction": name,
				"step":        step.Name,
			})
			tx.Results = append(tx.Results, &OperationResult{
				Name: step.Name, Success: false, Errors: []string{err.Error()},
			})
			tx.Errors = append(tx.Errors, fmt.Sprintf("%s: %s", step.Name, err.Error()))
			tx.Success = false
			s.rollback(ctx, name, steps[:i])
			tx.RollbackApplied = true
			break
		}
		if !result.IsSuccess() {
			tx.Results = append(tx.Results, &OperationResult{
				Name: step.Name, Success: false, Errors: result.ErrorMessages(),
			})
			for _, msg := range result.ErrorMessages() {
				tx.Errors = append(tx.Errors, fmt.Sprintf("%s: %s", step.Name, msg))
			}
			tx.Success = false
			s.rollback(ctx, name, steps[:i])
			tx.RollbackApplied = true
			break
		}
		tx.Results = append(tx.Results, &OperationResult{Name: step.Name, Success: true})
	}

	tx.Duration = time.Since(started)
	return tx
}

func (s *GameWorkflowService) rollback(ctx context.Context, name string, completed []TransactionStep) {
	for i := len(completed) - 1; i >= 0; i-- {
		step := completed[i]
		if step.Rollback == nil {
			continue
		}
		s.logger.Info("rolling back step", map[string]interface{}{
			"transaction": name,
			"step":        step.Name,
		})
		if err := step.Rollback(ctx); err != nil {
			s.logger.Error("rollback failed, manual intervention may be required", err,
				map[string]interface{}{"transaction": name, "step": step.Name})
		}
	}
}

// AttemptOperationWithRetry retries logical failures and faults with
// exponential backoff, 1s doubling up to 10s between attempts. A logical
// failure on the final attempt is returned, not escalated; a fault on the
// final attempt is returned as an error.
func (s *GameWorkflowService) AttemptOperationWithRetry(ctx context.Context, name string, op Operation, maxAttempts int) (*RetryOutcome, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	outcome := &RetryOutcome{}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		outcome.Attempts = attempt
		result, err := op(ctx)
		if err == nil && result.IsSuccess() {
			outcome.Result = result
			return outcome, nil
		}

		if err != nil {
			s.logger.Warn("operation attempt faulted", map[string]interface{}{
				"operation": name,
				"attempt":   attempt,
				"error":     err.Error(),
			})
			if attempt == maxAttempts {
				return outcome, err
			}
		} else {
			outcome.Result = result
			s.logger.Warn("operation attempt failed", map[string]interface{}{
				"operation": name,
				"attempt":   attempt,
				"errors":    result.ErrorMessages(),
			})
			if attempt == maxAttempts {
				outcome.Errors = append(outcome.Errors,
					fmt.Sprintf("%s failed after %d attempts", name, maxAttempts))
				return outcome, nil
			}
		}

		if err := s.wait(ctx, backoffDelay(attempt)); err != nil {
			return outcome, err
		}
	}

	return outcome, nil
}

func backoffDelay(attempt int) time.Duration {
	delay := time.Duration(1<<(attempt-1)) * time.Second
	if delay > maxBackoff {
		delay = maxBackoff
	}
	return delay
}

func (s *GameWorkflowService) wait(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CompleteAtBatSequence records an at-bat and carries out its follow-ups:
// closing the inning when it ended, applying queued substitutions one at
// a time, and a score notification. Only the at-bat itself is fatal to
// the sequence; every follow-up failure is collected, logged and moved
// past.
func (s *GameWorkflowService) CompleteAtBatSequence(ctx context.Context, cmd CompleteAtBat) *AtBatSequenceResult {
	started := time.Now()
	result := &AtBatSequenceResult{GameID: cmd.AtBat.GameID}

	outcome, err := s.AttemptOperationWithRetry(ctx, "RecordAtBat", func(ctx context.Context) (UseCaseResult, error) {
		return s.recordAtBat.Execute(ctx, &cmd.AtBat)
	}, cmd.MaxAttempts)
	result.RetryCount = outcome.Attempts - 1
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		result.Duration = time.Since(started)
		return result
	}

	atBat, ok := outcome.Result.(*command.RecordAtBatResult)
	if !ok || !outcome.IsSuccess() {
		result.Errors = append(result.Errors, outcome.ErrorMessages()...)
		if ok {
			result.AtBat = atBat
		}
		result.Duration = time.Since(started)
		return result
	}
	result.AtBat = atBat
	result.Success = true

	if cmd.CheckInningEnd && atBat.InningEnded {
		result.InningCloseAttempted = true
		closeResult, err := s.endInning.Execute(ctx, &command.EndInning{GameID: cmd.AtBat.GameID})
		switch {
		case err != nil:
			s.logger.Warn("inning close faulted after at-bat", map[string]interface{}{
				"game_id": cmd.AtBat.GameID,
				"error":   err.Error(),
			})
			result.Errors = append(result.Errors, err.Error())
		case !closeResult.IsSuccess():
			s.logger.Warn("inning close failed after at-bat", map[string]interface{}{
				"game_id": cmd.AtBat.GameID,
				"errors":  closeResult.ErrorMessages(),
			})
			result.Errors = append(result.Errors, closeResult.ErrorMessages()...)
		default:
			result.InningClosed = true
			if closeResult.GameEnded {
				result.GameCompleted = true
				if err := s.notification.NotifyGameEnded(ctx, cmd.AtBat.GameID, atBat.HomeScore, atBat.AwayScore); err != nil {
					s.logger.Warn("game end notification failed", map[string]interface{}{
						"game_id": cmd.AtBat.GameID,
						"error":   err.Error(),
					})
				}
			}
		}
	}

	for i := range cmd.QueuedSubstitutions {
		sub := cmd.QueuedSubstitutions[i]
		subResult, err := s.substitute.Execute(ctx, &sub)
		if err != nil {
			s.logger.Warn("queued substitution faulted", map[string]interface{}{
				"game_id": sub.GameID,
				"slot":    sub.BattingSlot,
				"error":   err.Error(),
			})
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.Substitutions = append(result.Substitutions, subResult)
		if !subResult.IsSuccess() {
			result.Errors = append(result.Errors, subResult.ErrorMessages()...)
		}
	}

	if cmd.NotifyScore && atBat.RunsScored > 0 {
		if err := s.notification.NotifyScoreUpdate(ctx, cmd.AtBat.GameID, atBat.HomeScore, atBat.AwayScore); err != nil {
			s.logger.Warn("score notification failed", map[string]interface{}{
				"game_id": cmd.AtBat.GameID,
				"error":   err.Error(),
			})
		} else {
			result.NotificationSent = true
		}
	}

	result.Duration = time.Since(started)
	return result
}

// CompleteGameWorkflow runs a scripted game in phases: start, at-bats,
// substitutions, completion notification, final assembly. At-bats stop at
// a natural game end, on the first failure unless ContinueOnFailure is
// set, or when the attempt budget runs out.
func (s *GameWorkflowService) CompleteGameWorkflow(ctx context.Context, cmd CompleteGame) *GameWorkflowResult {
	started := time.Now()
	result := &GameWorkflowResult{}

	maxAttempts := cmd.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = len(cmd.AtBats)
	}

	// Phase 1: start the game. Nothing can proceed without it.
	startResult, err := s.startGame.Execute(ctx, &cmd.Start)
	if err != nil {
		s.logger.Error("game start faulted", err, nil)
		result.Errors = append(result.Errors, err.Error())
		result.Duration = time.Since(started)
		return result
	}
	result.Start = startResult
	if !startResult.IsSuccess() {
		result.Errors = append(result.Errors, startResult.ErrorMessages()...)
		result.Duration = time.Since(started)
		return result
	}
	result.GameID = startResult.GameID

	if err := s.notification.NotifyGameStarted(ctx, startResult.GameID, cmd.Start.HomeTeamName, cmd.Start.AwayTeamName); err != nil {
		s.logger.Warn("game start notification failed", map[string]interface{}{
			"game_id": startResult.GameID,
			"error":   err.Error(),
		})
	}

	// Phase 2: at-bats, bounded by the attempt budget.
	var homeScore, awayScore int
	for i := range cmd.AtBats {
		if result.AtBatsAttempted >= maxAttempts {
			result.Errors = append(result.Errors,
				fmt.Sprintf("exceeded maximum at-bat attempts (%d)", maxAttempts))
			result.Duration = time.Since(started)
			return result
		}
		atBatCmd := cmd.AtBats[i]
		atBatCmd.GameID = startResult.GameID
		result.AtBatsAttempted++

		atBat, err := s.recordAtBat.Execute(ctx, &atBatCmd)
		if err != nil {
			result.AtBatsFailed++
			result.Errors = append(result.Errors, err.Error())
			if !cmd.ContinueOnFailure {
				break
			}
			continue
		}
		if !atBat.IsSuccess() {
			result.AtBatsFailed++
			result.Errors = append(result.Errors, atBat.ErrorMessages()...)
			if !cmd.ContinueOnFailure {
				break
			}
			continue
		}

		result.AtBatsSucceeded++
		homeScore, awayScore = atBat.HomeScore, atBat.AwayScore
		if atBat.GameEnded {
			result.GameCompleted = true
			break
		}
	}

	// Phase 3: substitutions, each through the substitution use case.
	for i := range cmd.Substitutions {
		subCmd := cmd.Substitutions[i]
		subCmd.GameID = startResult.GameID
		subResult, err := s.substitute.Execute(ctx, &subCmd)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.Substitutions = append(result.Substitutions, subResult)
		if subResult.IsSuccess() {
			result.SubstitutionsApplied++
		} else {
			result.Errors = append(result.Errors, subResult.ErrorMessages()...)
		}
	}

	// Phase 4: completion notification, best-effort.
	if result.GameCompleted {
		if err := s.notification.NotifyGameEnded(ctx, startResult.GameID, homeScore, awayScore); err != nil {
			s.logger.Warn("game end notification failed", map[string]interface{}{
				"game_id": startResult.GameID,
				"error":   err.Error(),
			})
		} else {
			result.NotificationSent = true
		}
	}

	// Phase 5: assemble.
	result.Success = result.AtBatsFailed == 0 && len(result.Errors) == 0
	result.Duration = time.Since(started)
	return result
}

// UndoLastGameAction passes through to the undo use case, adding logging
// and an audit trail. The use case's result is observed, never altered.
func (s *GameWorkflowService) UndoLastGameAction(ctx context.Context, cmd *command.UndoLastAction) (*command.UndoResult, error) {
	s.logger.Debug("undoing last game action", map[string]interface{}{"game_id": cmd.GameID})

	result, err := s.undo.Execute(ctx, cmd)
	if err != nil {
		s.logger.Error("undo faulted", err, map[string]interface{}{"game_id": cmd.GameID})
		s.logOperationAudit(ctx, "UndoLastAction", cmd.GameID, false)
		return nil, err
	}
	if result.IsSuccess() {
		s.logger.Info("undid game action", map[string]interface{}{
			"game_id": cmd.GameID,
			"action":  result.UndoneAction,
		})
	} else {
		s.logger.Warn("undo rejected", map[string]interface{}{
			"game_id": cmd.GameID,
			"errors":  result.ErrorMessages(),
		})
	}
	s.logOperationAudit(ctx, "UndoLastAction", cmd.GameID, result.IsSuccess())
	return result, nil
}

// RedoLastGameAction passes through to the redo use case, adding logging
// and an audit trail.
func (s *GameWorkflowService) RedoLastGameAction(ctx context.Context, cmd *command.RedoLastAction) (*command.RedoResult, error) {
	s.logger.Debug("redoing last undone game action", map[string]interface{}{"game_id": cmd.GameID})

	result, err := s.redo.Execute(ctx, cmd)
	if err != nil {
		s.logger.Error("redo faulted", err, map[string]interface{}{"game_id": cmd.GameID})
		s.logOperationAudit(ctx, "RedoLastAction", cmd.GameID, false)
		return nil, err
	}
	if result.IsSuccess() {
		s.logger.Info("redid game action", map[string]interface{}{
			"game_id": cmd.GameID,
			"action":  result.RedoneAction,
		})
	} else {
		s.logger.Warn("redo rejected", map[string]interface{}{
			"game_id": cmd.GameID,
			"errors":  result.ErrorMessages(),
		})
	}
	s.logOperationAudit(ctx, "RedoLastAction", cmd.GameID, result.IsSuccess())
	return result, nil
}

// ValidateGameOperationPermissions resolves the acting user and checks
// the named permission, returning a structured result instead of an
// error so callers can branch on it directly.
func (s *GameWorkflowService) ValidateGameOperationPermissions(ctx context.Context, gameID, operation string) *PermissionCheckResult {
	userID, err := s.auth.CurrentUser(ctx)
	if err != nil || userID == "" {
		return &PermissionCheckResult{
			Valid:     false,
			Operation: operation,
			Reason:    "no authenticated user",
		}
	}

	allowed, err := s.auth.HasPermission(ctx, userID, operation)
	if err != nil {
		s.logger.Error("permission check faulted", err, map[string]interface{}{
			"game_id":   gameID,
			"operation": operation,
			"user_id":   userID,
		})
		return &PermissionCheckResult{
			Valid:     false,
			UserID:    userID,
			Operation: operation,
			Reason:    "permission check failed",
		}
	}
	if !allowed {
		return &PermissionCheckResult{
			Valid:     false,
			UserID:    userID,
			Operation: operation,
			Reason:    fmt.Sprintf("user lacks permission %s", operation),
		}
	}
	return &PermissionCheckResult{Valid: true, UserID: userID, Operation: operation}
}

func (s *GameWorkflowService) logOperationAudit(ctx context.Context, operation, gameID string, success bool) {
	userID, err := s.auth.CurrentUser(ctx)
	if err != nil {
		userID = "unknown"
	}
	s.logger.Info("operation audit", map[string]interface{}{
		"user_id":   userID,
		"operation": operation,
		"game_id":   gameID,
		"success":   success,
	})
}
