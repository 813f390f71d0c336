package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"activeflow/models"
)

const (
	sessionsCollection = "sessions"
	sessionKeyPrefix   = "session:"
)

// SessionStore records issued tokens so they can be revoked on logout.
type SessionStore interface {
	Save(ctx context.Context, s models.Session) error
	// Exists reports whether token was saved, is not revoked and has not expired.
	Exists(ctx context.Context, token string) (bool, error)
	Revoke(ctx context.Context, token string) error
}

type MemorySessions struct {
	mu       sync.Mutex
	sessions map[string]models.Session
	now      func() time.Time
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{sessions: make(map[string]models.Session), now: time.Now}
}

func (m *MemorySessions) Save(_ context.Context, s models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Token] = s
	return nil
}

func (m *MemorySessions) Exists(_ context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return false, nil
	}
	if s.ExpiresAt <= m.now().Unix() {
		delete(m.sessions, token)
		return false, nil
	}
	return true, nil
}

func (m *MemorySessions) Revoke(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

type MongoSessions struct {
	coll *mongo.Collection
}

func NewMongoSessions(db *mongo.Database) *MongoSessions {
	return &MongoSessions{coll: db.Collection(sessionsCollection)}
}

func (m *MongoSessions) Save(ctx context.Context, s models.Session) error {
	if _, err := m.coll.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (m *MongoSessions) Exists(ctx context.Context, token string) (bool, error) {
	count, err := m.coll.CountDocuments(ctx, bson.M{
		"token":      token,
		"expires_at": bson.M{"$gt": time.Now().Unix()},
	})
	if err != nil {
		return false, fmt.Errorf("count sessions: %w", err)
	}
	return count > 0, nil
}

func (m *MongoSessions) Revoke(ctx context.Context, token string) error {
	if _, err := m.coll.DeleteMany(ctx, bson.M{"token": token}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// RedisSessions keeps one key per token that expires together with the token.
type RedisSessions struct {
	client *redis.Client
}

func NewRedisSessions(client *redis.Client) *RedisSessions {
	return &RedisSessions{client: client}
}

func (r *RedisSessions) Save(ctx context.Context, s models.Session) error {
	ttl := time.Until(time.Unix(s.ExpiresAt, 0))
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, sessionKeyPrefix+s.Token, s.UserID, ttl).Err()
}

func (r *RedisSessions) Exists(ctx context.Context, token string) (bool, error) {
	count, err := r.client.Exists(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *RedisSessions) Revoke(ctx context.Context, token string) error {
	return r.client.Del(ctx, sessionKeyPrefix+token).Err()
}
