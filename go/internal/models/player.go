package models

// Player represents a row of the player table. Fields that were not selected
// by the query stay at their zero value.
type Player struct {
	ID        int64   `json:"id"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	TeamID    *int32  `json:"team_id,omitempty"` // nullable: orphan players are allowed
	Team      *Team   `json:"team,omitempty"`
}
