package model

// Team is a reference row pointed at by User.TeamID. A nil TeamID means
// the user is unassigned.
type Team struct {
	TeamID uint   `gorm:"column:team_id;primaryKey"`
	Name   string `gorm:"column:name;not null"`
}

func (Team) TableName() string {
	return "teams"
}
