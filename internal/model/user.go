package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents the user document stored in the users collection
type User struct {
	ID        primitive.ObjectID `bson:"_id"`
	FirstName string             `bson:"first_name"`
	LastName  string             `bson:"last_name"`
	Email     string             `bson:"email"`
	Mobile    string             `bson:"mobile"`
	Password  string             `bson:"password"` // bcrypt hash
	Created   time.Time          `bson:"created"`
	Updated   *time.Time         `bson:"updated"`
	SchoolID  *string            `bson:"schoolId"`
}

// UserView is the public shape of a user. The password hash has no field here.
type UserView struct {
	ID        string     `json:"_id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Mobile    string     `json:"mobile"`
	Created   time.Time  `json:"created"`
	Updated   *time.Time `json:"updated"`
}

// View projects the user onto its public fields
func (u *User) View() UserView {
	return UserView{
		ID:        u.ID.Hex(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Mobile:    u.Mobile,
		Created:   u.Created,
		Updated:   u.Updated,
	}
}

// UserViews projects a slice of users, never returning nil
func UserViews(users []User) []UserView {
	views := make([]UserView, 0, len(users))
	for i := range users {
		views = append(views, users[i].View())
	}
	return views
}
