package models

// User is an admin account. Only admins log in; candidates never do.
type User struct {
	ID           uint   `json:"id" db:"id" gorm:"column:id;primaryKey"`
	Username     string `json:"username" db:"username" gorm:"column:username;type:varchar(150);not null;uniqueIndex" validate:"required,max=150"`
	PasswordHash string `json:"-" db:"password_hash" gorm:"column:password_hash;type:varchar(60);not null"`
}

func (User) TableName() string { return "users" }
