package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"activeflow/models"
)

const workoutsCollection = "workouts"

type workoutDoc struct {
	ID             primitive.ObjectID `bson:"_id"`
	models.Workout `bson:",inline"`
}

func (d workoutDoc) toModel() models.Workout {
	w := d.Workout
	w.ID = d.ID.Hex()
	return w
}

// MongoStore persists workouts in the "workouts" collection.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(workoutsCollection)}
}

func (s *MongoStore) Create(ctx context.Context, w *models.Workout) (string, error) {
	doc := workoutDoc{ID: primitive.NewObjectID(), Workout: *w}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("insert workout: %w", err)
	}
	w.ID = doc.ID.Hex()
	return w.ID, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*models.Workout, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var doc workoutDoc
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrWorkoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find workout: %w", err)
	}
	w := doc.toModel()
	return &w, nil
}

func (s *MongoStore) ListByUser(ctx context.Context, userID string) ([]models.Workout, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find workouts: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []workoutDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode workouts: %w", err)
	}

	out := make([]models.Workout, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (s *MongoStore) Update(ctx context.Context, id string, w *models.Workout) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	result, err := s.coll.ReplaceOne(ctx, bson.M{"_id": oid}, workoutDoc{ID: oid, Workout: *w})
	if err != nil {
		return fmt.Errorf("replace workout: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrWorkoutNotFound
	}
	w.ID = id
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// nothing can match a malformed id
		return nil
	}
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}
	return nil
}
