package projection

import (
	"context"
	"fmt"
	"time"

	"softball-scorebook/internal/domain/event"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ScoreboardReadModel is the live scoreboard for one game.
type ScoreboardReadModel struct {
	GameID        string    `bson:"_id" json:"game_id"`
	HomeTeam      string    `bson:"home_team" json:"home_team"`
	AwayTeam      string    `bson:"away_team" json:"away_team"`
	HomeScore     int       `bson:"home_score" json:"home_score"`
	AwayScore     int       `bson:"away_score" json:"away_score"`
	CurrentInning int       `bson:"current_inning" json:"current_inning"`
	IsTopHalf     bool      `bson:"is_top_half" json:"is_top_half"`
	Status        string    `bson:"status" json:"status"`
	StartedAt     time.Time `bson:"started_at" json:"started_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}

// ScoreboardProjection handles scoreboard read model operations
type ScoreboardProjection interface {
	GetByGameID(ctx context.Context, gameID string) (*ScoreboardReadModel, error)
	ListActive(ctx context.Context, offset, limit int) ([]*ScoreboardReadModel, error)
	HandleGameStarted(ctx context.Context, event *event.GameStarted) error
	HandleScoreUpdated(ctx context.Context, event *event.ScoreUpdated) error
	HandleScoreCorrected(ctx context.Context, event *event.ScoreCorrected) error
	HandleGameInningAdvanced(ctx context.Context, event *event.GameInningAdvanced) error
	HandleGameCompleted(ctx context.Context, event *event.GameCompleted) error
}

// MongoScoreboardProjection implements ScoreboardProjection using MongoDB
type MongoScoreboardProjection struct {
	collection *mongo.Collection
}

// NewMongoScoreboardProjection creates a new MongoDB scoreboard projection
func NewMongoScoreboardProjection(db *mongo.Database) *MongoScoreboardProjection {
	collection := db.Collection("scoreboards")

	ctx := context.Background()
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "started_at", Value: -1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		fmt.Printf("Warning: failed to create scoreboard indexes: %v\n", err)
	}

	return &MongoScoreboardProjection{
		collection: collection,
	}
}

// GetByGameID retrieves the scoreboard for a game
func (p *MongoScoreboardProjection) GetByGameID(ctx context.Context, gameID string) (*ScoreboardReadModel, error) {
	var scoreboard ScoreboardReadModel
	err := p.collection.FindOne(ctx, bson.M{"_id": gameID}).Decode(&scoreboard)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("scoreboard not found: %s", gameID)
		}
		return nil, fmt.Errorf("failed to get scoreboard: %w", err)
	}
	return &scoreboard, nil
}

// ListActive retrieves scoreboards of games still in progress
func (p *MongoScoreboardProjection) ListActive(ctx context.Context, offset, limit int) ([]*ScoreboardReadModel, error) {
	opts := options.Find().
		SetSkip(int64(offset)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "started_at", Value: -1}})

	cursor, err := p.collection.Find(ctx, bson.M{"status": "IN_PROGRESS"}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find scoreboards: %w", err)
	}
	defer cursor.Close(ctx)

	var scoreboards []*ScoreboardReadModel
	if err := cursor.All(ctx, &scoreboards); err != nil {
		return nil, fmt.Errorf("failed to decode scoreboards: %w", err)
	}

	return scoreboards, nil
}

// HandleGameStarted handles the GameStarted event
func (p *MongoScoreboardProjection) HandleGameStarted(ctx context.Context, event *event.GameStarted) error {
	scoreboard := &ScoreboardReadModel{
		GameID:        event.GameID,
		HomeTeam:      event.HomeTeamName,
		AwayTeam:      event.AwayTeamName,
		CurrentInning: 1,
		IsTopHalf:     true,
		Status:        "IN_PROGRESS",
		StartedAt:     event.Timestamp,
		UpdatedAt:     event.Timestamp,
	}

	_, err := p.collection.InsertOne(ctx, scoreboard)
	if err != nil {
		return fmt.Errorf("failed to insert scoreboard: %w", err)
	}

	return nil
}

// HandleScoreUpdated handles the ScoreUpdated event. The event carries
// absolute totals, so the update is idempotent under redelivery.
func (p *MongoScoreboardProjection) HandleScoreUpdated(ctx context.Context, event *event.ScoreUpdated) error {
	filter := bson.M{"_id": event.GameID}
	update := bson.M{
		"$set": bson.M{
			"home_score": event.HomeScore,
			"away_score": event.AwayScore,
			"updated_at": event.Timestamp,
		},
	}

	result, err := p.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update scoreboard: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("scoreboard not found: %s", event.GameID)
	}

	return nil
}

// HandleScoreCorrected handles the ScoreCorrected compensating event
func (p *MongoScoreboardProjection) HandleScoreCorrected(ctx context.Context, event *event.ScoreCorrected) error {
	field := "home_score"
	if event.TeamSide == "AWAY" {
		field = "away_score"
	}

	filter := bson.M{"_id": event.GameID}
	update := bson.M{
		"$inc": bson.M{field: event.RunsDelta},
		"$set": bson.M{"updated_at": event.Timestamp},
	}

	result, err := p.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to correct scoreboard: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("scoreboard not found: %s", event.GameID)
	}

	return nil
}

// HandleGameInningAdvanced handles the GameInningAdvanced event
func (p *MongoScoreboardProjection) HandleGameInningAdvanced(ctx context.Context, event *event.GameInningAdvanced) error {
	filter := bson.M{"_id": event.GameID}
	update := bson.M{
		"$set": bson.M{
			"current_inning": event.Inning,
			"is_top_half":    event.IsTopHalf,
			"updated_at":     event.Timestamp,
		},
	}

	result, err := p.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to advance scoreboard inning: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("scoreboard not found: %s", event.GameID)
	}

	return nil
}

// HandleGameCompleted handles the GameCompleted event
func (p *MongoScoreboardProjection) HandleGameCompleted(ctx context.Context, event *event.GameCompleted) error {
	filter := bson.M{"_id": event.GameID}
	update := bson.M{
		"$set": bson.M{
			"home_score": event.HomeScore,
			"away_score": event.AwayScore,
			"status":     "COMPLETED",
			"updated_at": event.Timestamp,
		},
	}

	result, err := p.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to complete scoreboard: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("scoreboard not found: %s", event.GameID)
	}

	return nil
}
