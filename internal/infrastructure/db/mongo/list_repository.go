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

const listCollection = "lists"

type MongoListRepository struct {
	coll *mongo.Collection
}

func NewListRepository(db *mongo.Database) *MongoListRepository {
	return &MongoListRepository{coll: db.Collection(listCollection)}
}

type mongoList struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Position  int                `bson:"position"`
	OwnerID   string             `bson:"owner_id"`
	CreatedAt int64              `bson:"created_at"`
	UpdatedAt int64              `bson:"updated_at"`
}

func (r *MongoListRepository) Create(ctx context.Context, list *domain.KanbanList) (*domain.KanbanList, error) {
	doc := mongoList{
		Title:     list.Title,
		Position:  list.Position,
		OwnerID:   list.OwnerID,
		CreatedAt: list.CreatedAt.Unix(),
		UpdatedAt: list.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert list: %w", err)
	}

	out := *list
	out.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &out, nil
}

func (r *MongoListRepository) FindByID(ctx context.Context, id string) (*domain.KanbanList, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListNotFound
	}

	var ml mongoList
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&ml); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrListNotFound
		}
		return nil, fmt.Errorf("find list: %w", err)
	}
	return toDomainList(ml), nil
}

func (r *MongoListRepository) FindByOwner(ctx context.Context, ownerID string) ([]domain.KanbanList, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"owner_id": ownerID},
		options.Find().SetSort(bson.D{{Key: "position", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find lists by owner: %w", err)
	}
	defer cursor.Close(ctx)

	var out []domain.KanbanList
	for cursor.Next(ctx) {
		var ml mongoList
		if err := cursor.Decode(&ml); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		out = append(out, *toDomainList(ml))
	}
	return out, cursor.Err()
}

func (r *MongoListRepository) Update(ctx context.Context, list *domain.KanbanList) (*domain.KanbanList, error) {
	oid, err := primitive.ObjectIDFromHex(list.ID)
	if err != nil {
		return nil, domain.ErrListNotFound
	}

	update := bson.M{"$set": bson.M{
		"title":      list.Title,
		"position":   list.Position,
		"updated_at": list.UpdatedAt.Unix(),
	}}

	res, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		return nil, fmt.Errorf("update list: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrListNotFound
	}

	out := *list
	return &out, nil
}

func (r *MongoListRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrListNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrListNotFound
	}
	return nil
}

func toDomainList(ml mongoList) *domain.KanbanList {
	return &domain.KanbanList{
		ID:        ml.ID.Hex(),
		Title:     ml.Title,
		Position:  ml.Position,
		OwnerID:   ml.OwnerID,
		CreatedAt: unixToTime(ml.CreatedAt),
		UpdatedAt: unixToTime(ml.UpdatedAt),
	}
}
