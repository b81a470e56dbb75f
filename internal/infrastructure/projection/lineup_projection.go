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

// LineupSlotView is one batting slot in the lineup read model.
type LineupSlotView struct {
	Slot          int    `bson:"slot" json:"slot"`
	PlayerID      string `bson:"player_id" json:"player_id"`
	JerseyNumber  string `bson:"jersey_number" json:"jersey_number"`
	PlayerName    string `bson:"player_name" json:"player_name"`
	FieldPosition string `bson:"field_position" json:"field_position"`
}

// LineupReadModel is the query view of one team's current lineup.
type LineupReadModel struct {
	LineupID      string           `bson:"_id" json:"lineup_id"`
	GameID        string           `bson:"game_id" json:"game_id"`
	TeamName      string           `bson:"team_name" json:"team_name"`
	TeamSide      string           `bson:"team_side" json:"team_side"`
	Slots         []LineupSlotView `bson:"slots" json:"slots"`
	Substitutions int              `bson:"substitutions" json:"substitutions"`
	UpdatedAt     time.Time        `bson:"updated_at" json:"updated_at"`
}

// LineupProjection handles lineup read model operations
type LineupProjection interface {
	GetByID(ctx context.Context, lineupID string) (*LineupReadModel, error)
	GetByGameAndSide(ctx context.Context, gameID, teamSide string) (*LineupReadModel, error)
	HandleTeamLineupCreated(ctx context.Context, event *event.TeamLineupCreated) error
	HandlePlayerAddedToLineup(ctx context.Context, event *event.PlayerAddedToLineup) error
	HandlePlayerSubstitutedIntoGame(ctx context.Context, event *event.PlayerSubstitutedIntoGame) error
	HandleFieldPositionChanged(ctx context.Context, event *event.FieldPositionChanged) error
}

// MongoLineupProjection implements LineupProjection using MongoDB
type MongoLineupProjection struct {
	collection *mongo.Collection
}

// NewMongoLineupProjection creates a new MongoDB lineup projection
func NewMongoLineupProjection(db *mongo.Database) *MongoLineupProjection {
	collection := db.Collection("lineups")

	ctx := context.Background()
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "game_id", Value: 1}, {Key: "team_side", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		fmt.Printf("Warning: failed to create lineup indexes: %v\n", err)
	}

	return &MongoLineupProjection{
		collection: collection,
	}
}

// GetByID retrieves a lineup by ID
func (p *MongoLineupProjection) GetByID(ctx context.Context, lineupID string) (*LineupReadModel, error) {
	var lineup LineupReadModel
	err := p.collection.FindOne(ctx, bson.M{"_id": lineupID}).Decode(&lineup)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("lineup not found: %s", lineupID)
		}
		return nil, fmt.Errorf("failed to get lineup: %w", err)
	}
	return &lineup, nil
}

// GetByGameAndSide retrieves one team's lineup in a game
func (p *MongoLineupProjection) GetByGameAndSide(ctx context.Context, gameID, teamSide string) (*LineupReadModel, error) {
	var lineup LineupReadModel
	filter := bson.M{"game_id": gameID, "team_side": teamSide}
	err := p.collection.FindOne(ctx, filter).Decode(&lineup)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("lineup not found for game %s side %s", gameID, teamSide)
		}
		return nil, fmt.Errorf("failed to get lineup: %w", err)
	}
	return &lineup, nil
}

// HandleTeamLineupCreated handles the TeamLineupCreated event
func (p *MongoLineupProjection) HandleTeamLineupCreated(ctx context.Context, event *event.TeamLineupCreated) error {
	lineup := &LineupReadModel{
		LineupID:  event.TeamLineupID,
		GameID:    event.GameID,
		TeamName:  event.TeamName,
		TeamSide:  event.TeamSide,
		Slots:     []LineupSlotView{},
		UpdatedAt: event.Timestamp,
	}

	_, err := p.collection.InsertOne(ctx, lineup)
	if err != nil {
		return fmt.Errorf("failed to insert lineup: %w", err)
	}

	return nil
}

// HandlePlayerAddedToLineup handles the PlayerAddedToLineup event
func (p *MongoLineupProjection) HandlePlayerAddedToLineup(ctx context.Context, event *event.PlayerAddedToLineup) error {
	slot := LineupSlotView{
		Slot:          event.BattingSlot,
		PlayerID:      event.PlayerID,
		JerseyNumber:  event.JerseyNumber,
		PlayerName:    event.PlayerName,
		FieldPosition: event.FieldPosition,
	}

	filter := bson.M{"_id": event.TeamLineupID}
	update := bson.M{
		"$push": bson.M{"slots": slot},
		"$set":  bson.M{"updated_at": event.Timestamp},
	}

	result, err := p.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to add player to lineup: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("lineup not found: %s", event.TeamLineupID)
	}

	return nil
}

// HandlePlayerSubstitutedIntoGame handles the PlayerSubstitutedIntoGame event
func (p *MongoLineupProjection) HandlePlayerSubstitutedIntoGame(ctx context.Context, event *event.PlayerSubstitutedIntoGame) error {
	filter := bson.M{
		"_id":        event.TeamLineupID,
		"slots.slot": event.BattingSlot,
	}
	update := bson.M{
		"$set": bson.M{
			"slots.$.player_id":      event.IncomingPlayerID,
			"slots.$.field_position": event.FieldPosition,
			"updated_at":             event.Timestamp,
		},
		"$inc": bson.M{"substitutions": 1},
	}

	result, err := p.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to apply substitution to lineup: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("lineup slot not found: %s slot %d", event.TeamLineupID, event.BattingSlot)
	}

	return nil
}

// HandleFieldPositionChanged handles the FieldPositionChanged event
func (p *MongoLineupProjection) HandleFieldPositionChanged(ctx context.Context, event *event.FieldPositionChanged) error {
	filter := bson.M{
		"_id":             event.TeamLineupID,
		"slots.player_id": event.PlayerID,
	}
	update := bson.M{
		"$set": bson.M{
			"slots.$.field_position": event.ToPosition,
			"updated_at":             event.Timestamp,
		},
	}

	result, err := p.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to change lineup position: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("lineup player not found: %s player %s", event.TeamLineupID, event.PlayerID)
	}

	return nil
}
