package models

type Session struct {
	UserID    string `bson:"user_id" json:"user_id"`
	Token     string `bson:"token" json:"token"`
	ExpiresAt int64  `bson:"expires_at" json:"expires_at"`
}
