package domain

import "time"

// TeamStatus marks whether a crew is available for assignments.
type TeamStatus string

const (
	TeamActive   TeamStatus = "active"
	TeamInactive TeamStatus = "inactive"
)

// Team is a municipal work crew that reports get assigned to.
type Team struct {
	ID        string     `json:"id" bson:"_id,omitempty"`
	Name      string     `json:"name" bson:"name"`
	MemberIDs []string   `json:"member_ids,omitempty" bson:"member_ids,omitempty"`
	LeaderID  string     `json:"leader_id,omitempty" bson:"leader_id,omitempty"`
	Status    TeamStatus `json:"status" bson:"status"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at"`
}
