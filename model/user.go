package model

// User is an API account (login/registration)
import "gorm.io/gorm"

type User struct {
	gorm.Model
	Username string `json:"username" gorm:"uniqueIndex;not null"` // unique, required
	Password string `json:"-" gorm:"not null"`                    // bcrypt hash
	Email    string `json:"email"`
}
