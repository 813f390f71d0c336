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

const usersCollection = "users"

type userDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	models.User `bson:",inline"`
}

func (d userDoc) toModel() models.User {
	u := d.User
	u.ID = d.ID.Hex()
	return u
}

// MongoIdentity stores accounts in the "users" collection with bcrypt hashes.
type MongoIdentity struct {
	users *mongo.Collection
}

func NewMongoIdentity(db *mongo.Database) *MongoIdentity {
	return &MongoIdentity{users: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique email index that backs ErrEmailTaken when
// two registrations race past the lookup.
func (m *MongoIdentity) EnsureIndexes(ctx context.Context) error {
	_, err := m.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}
	return nil
}

func (m *MongoIdentity) findByEmail(ctx context.Context, email string) (*userDoc, error) {
	var doc userDoc
	err := m.users.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &doc, nil
}

func (m *MongoIdentity) Register(ctx context.Context, email, password, username string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	existing, err := m.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	doc := userDoc{
		ID:   primitive.NewObjectID(),
		User: models.User{Email: email, Password: hashed, Username: username},
	}
	if _, err := m.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return publicUser(doc.toModel()), nil
}

func (m *MongoIdentity) Login(ctx context.Context, email, password string) (*models.User, error) {
	doc, err := m.findByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrInvalidCredentials
	}

	user := doc.toModel()
	if err := checkPassword(&user, password); err != nil {
		return nil, err
	}
	return publicUser(user), nil
}

func (m *MongoIdentity) LoginExternal(ctx context.Context, googleID, email, name string) (*models.User, error) {
	email = normalizeEmail(email)
	if googleID == "" || email == "" {
		return nil, ErrMissingCredentials
	}

	doc, err := m.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if doc != nil {
		if doc.GoogleID == "" {
			return nil, ErrEmailTaken
		}
		return publicUser(doc.toModel()), nil
	}

	created := userDoc{
		ID:   primitive.NewObjectID(),
		User: models.User{GoogleID: googleID, Email: email, Username: name},
	}
	if _, err := m.users.InsertOne(ctx, created); err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return publicUser(created.toModel()), nil
}
