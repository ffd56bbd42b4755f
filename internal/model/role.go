package model

// Role is a reference row pointed at by User.RoleID.
type Role struct {
	RoleID uint   `gorm:"column:role_id;primaryKey"`
	Name   string `gorm:"column:name;unique;not null"`
}

func (Role) TableName() string {
	return "roles"
}
