package services

import (
	"context"

	"softball-scorebook/internal/application/command"
)

// UseCaseResult is the uniform result shape the workflow layer consumes.
// Every use-case result embeds command.Result, which satisfies it; the
// workflow service never inspects anything beyond success and errors
// generically.
type UseCaseResult interface {
	IsSuccess() bool
	ErrorMessages() []string
}

// Operation is one workflow step. A non-nil error is an infrastructure
// fault; a result with IsSuccess()==false is a logical failure.
type Operation func(ctx context.Context) (UseCaseResult, error)

// Use-case ports consumed by the workflow service. The concrete handlers
// in the command package implement them; tests substitute stubs.

type StartNewGameUseCase interface {
	Execute(ctx context.Context, cmd *command.StartNewGame) (*command.StartNewGameResult, error)
}

type RecordAtBatUseCase interface {
	Execute(ctx context.Context, cmd *command.RecordAtBat) (*command.RecordAtBatResult, error)
}

type SubstitutePlayerUseCase interface {
	Execute(ctx context.Context, cmd *command.SubstitutePlayer) (*command.SubstitutePlayerResult, error)
}

type EndInningUseCase interface {
	Execute(ctx context.Context, cmd *command.EndInning) (*command.EndInningResult, error)
}

type UndoLastActionUseCase interface {
	Execute(ctx context.Context, cmd *command.UndoLastAction) (*command.UndoResult, error)
}

type RedoLastActionUseCase interface {
	Execute(ctx context.Context, cmd *command.RedoLastAction) (*command.RedoResult, error)
}

// Logger is the structured logging port of the workflow service.
type Logger interface {
	Debug(msg string, context map[string]interface{})
	Info(msg string, context map[string]interface{})
	Warn(msg string, context map[string]interface{})
	Error(msg string, err error, context map[string]interface{})
}

// NotificationService delivers game updates to interested parties. All
// methods are best-effort: the workflow logs failures and moves on.
type NotificationService interface {
	NotifyGameStarted(ctx context.Context, gameID, homeTeam, awayTeam string) error
	NotifyScoreUpdate(ctx context.Context, gameID string, homeScore, awayScore int) error
	NotifyGameEnded(ctx context.Context, gameID string, homeScore, awayScore int) error
}

// AuthService resolves the acting user and their permissions.
type AuthService interface {
	CurrentUser(ctx context.Context) (string, error)
	HasPermission(ctx context.Context, userID, operation string) (bool, error)
}
