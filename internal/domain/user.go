package domain

// User Model (identity provider account)
type User struct {
	ID       uint   `gorm:"primaryKey"`      // Primary key, doubles as the principal identifier
	Username string `gorm:"unique;not null"` // Unique username
	Password string `gorm:"not null"`        // Hashed password
}
