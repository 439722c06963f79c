package models

import "time"

type Team struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	FormedOn  time.Time `json:"formed_on"`
	ManagerID int       `json:"manager_id"`
	CreatedAt time.Time `json:"created_at"`

	Manager *Player  `json:"manager,omitempty"`
	Members []Player `json:"members,omitempty"`

	LogoKey *string `json:"-"`
	LogoURL *string `json:"logo_url,omitempty"`
}

// TeamMember is one row of the teams<->players join relation.
type TeamMember struct {
	TeamID   int       `json:"team_id"`
	PlayerID int       `json:"player_id"`
	JoinedOn time.Time `json:"joined_on"`
}
