package models

// Team represents a row of the team table
type Team struct {
	ID      int32     `json:"id"`
	Name    *string   `json:"name,omitempty"`
	Players []*Player `json:"players,omitempty"`
}
