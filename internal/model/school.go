package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// School represents the school document stored in the schools collection.
// ID is supplied by the caller on creation, not generated by the store.
type School struct {
	ID       primitive.ObjectID `bson:"_id"`
	PublicID string             `bson:"public_id"`
	Name     string             `bson:"name"`
	City     string             `bson:"city"`
	State    string             `bson:"state"`
	Country  string             `bson:"country"`
	Created  time.Time          `bson:"created"`
	Updated  *time.Time         `bson:"updated"`
}

// SchoolView is the public shape of a school
type SchoolView struct {
	ID       string     `json:"_id"`
	PublicID string     `json:"public_id"`
	Name     string     `json:"name"`
	City     string     `json:"city"`
	State    string     `json:"state"`
	Country  string     `json:"country"`
	Created  time.Time  `json:"created"`
	Updated  *time.Time `json:"updated"`
}

// View projects the school onto its public fields
func (s *School) View() SchoolView {
	return SchoolView{
		ID:       s.ID.Hex(),
		PublicID: s.PublicID,
		Name:     s.Name,
		City:     s.City,
		State:    s.State,
		Country:  s.Country,
		Created:  s.Created,
		Updated:  s.Updated,
	}
}

// SchoolViews projects a slice of schools, never returning nil
func SchoolViews(schools []School) []SchoolView {
	views := make([]SchoolView, 0, len(schools))
	for i := range schools {
		views = append(views, schools[i].View())
	}
	return views
}
