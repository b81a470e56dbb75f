package notification

import (
	"context"

	"go.uber.org/zap"

	"softball-scorebook/internal/application/services"
)

// LogNotificationService implements the notification port by writing
// structured log entries. It stands in for a push or webhook channel and
// never fails, which keeps every notification genuinely best-effort.
type LogNotificationService struct {
	logger *zap.Logger
}

var _ services.NotificationService = (*LogNotificationService)(nil)

func NewLogNotificationService(logger *zap.Logger) *LogNotificationService {
	return &LogNotificationService{logger: logger}
}

func (s *LogNotificationService) NotifyGameStarted(ctx context.Context, gameID, homeTeam, awayTeam string) error {
	s.logger.Info("notification: game started",
		zap.String("game_id", gameID),
		zap.String("home_team", homeTeam),
		zap.String("away_team", awayTeam),
	)
	return nil
}

func (s *LogNotificationService) NotifyScoreUpdate(ctx context.Context, gameID string, homeScore, awayScore int) error {
	s.logger.Info("notification: score update",
		zap.String("game_id", gameID),
		zap.Int("home_score", homeScore),
		zap.Int("away_score", awayScore),
	)
	return nil
}

func (s *LogNotificationService) NotifyGameEnded(ctx context.Context, gameID string, homeScore, awayScore int) error {
	s.logger.Info("notification: game ended",
		zap.String("game_id", gameID),
		zap.Int("home_score", homeScore),
		zap.Int("away_score", awayScore),
	)
	return nil
}
