package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kanbanhq/kanban-api/internal/core/domain"
)

const cardCollection = "cards"

type MongoCardRepository struct {
	coll *mongo.Collection
}

func NewCardRepository(db *mongo.Database) *MongoCardRepository {
	return &MongoCardRepository{coll: db.Collection(cardCollection)}
}

type mongoCard struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Position    int                `bson:"position"`
	ListID      string             `bson:"list_id"`
	OwnerID     string             `bson:"owner_id"`
	CreatedAt   int64              `bson:"created_at"`
	UpdatedAt   int64              `bson:"updated_at"`
}

func (r *MongoCardRepository) Create(ctx context.Context, card *domain.Card) (*domain.Card, error) {
	doc := mongoCard{
		Title:       card.Title,
		Description: card.Description,
		Position:    card.Position,
		ListID:      card.ListID,
		OwnerID:     card.OwnerID,
		CreatedAt:   card.CreatedAt.Unix(),
		UpdatedAt:   card.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert card: %w", err)
	}

	out := *card
	out.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &out, nil
}

func (r *MongoCardRepository) FindByID(ctx context.Context, id string) (*domain.Card, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCardNotFound
	}

	var mc mongoCard
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrCardNotFound
		}
		return nil, fmt.Errorf("find card: %w", err)
	}
	return toDomainCard(mc), nil
}

func (r *MongoCardRepository) FindByList(ctx context.Context, listID string) ([]domain.Card, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"list_id": listID},
		options.Find().SetSort(bson.D{{Key: "position", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find cards by list: %w", err)
	}
	defer cursor.Close(ctx)

	var out []domain.Card
	for cursor.Next(ctx) {
		var mc mongoCard
		if err := cursor.Decode(&mc); err != nil {
			return nil, fmt.Errorf("decode card: %w", err)
		}
		out = append(out, *toDomainCard(mc))
	}
	return out, cursor.Err()
}

func (r *MongoCardRepository) Update(ctx context.Context, card *domain.Card) (*domain.Card, error) {
	oid, err := primitive.ObjectIDFromHex(card.ID)
	if err != nil {
		return nil, domain.ErrCardNotFound
	}

	update := bson.M{"$set": bson.M{
		"title":       card.Title,
		"description": card.Description,
		"position":    card.Position,
		"list_id":     card.ListID,
		"updated_at":  card.UpdatedAt.Unix(),
	}}

	res, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		return nil, fmt.Errorf("update card: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrCardNotFound
	}

	out := *card
	return &out, nil
}

func (r *MongoCardRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrCardNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCardNotFound
	}
	return nil
}

// DeleteByList removes every card attached to a list; used when the list
// itself is deleted.
func (r *MongoCardRepository) DeleteByList(ctx context.Context, listID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"list_id": listID}); err != nil {
		return fmt.Errorf("delete cards by list: %w", err)
	}
	return nil
}

func toDomainCard(mc mongoCard) *domain.Card {
	return &domain.Card{
		ID:          mc.ID.Hex(),
		Title:       mc.Title,
		Description: mc.Description,
		Position:    mc.Position,
		ListID:      mc.ListID,
		OwnerID:     mc.OwnerID,
		CreatedAt:   unixToTime(mc.CreatedAt),
		UpdatedAt:   unixToTime(mc.UpdatedAt),
	}
}
