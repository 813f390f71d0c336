package models

type User struct {
	ID       string `bson:"-" json:"id"`
	GoogleID string `bson:"google_id,omitempty" json:"google_id,omitempty"`
	Email    string `bson:"email" json:"email"`
	Password string `bson:"password,omitempty" json:"-"`
	Username string `bson:"username,omitempty" json:"username,omitempty"`
}
