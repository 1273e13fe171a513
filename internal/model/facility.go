package model

import "time"

// Facility is an equine operation owned by a user (stud farm, training
// center, riding school). Region and type are optional descriptors.
type Facility struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	UserID    string    `json:"userId" bson:"userId"`
	Name      string    `json:"name" bson:"name"`
	Region    string    `json:"region,omitempty" bson:"region,omitempty"`
	Type      string    `json:"type,omitempty" bson:"type,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
