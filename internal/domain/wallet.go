package domain

// Wallet Model (one row per principal)
type Wallet struct {
	ID      uint  `gorm:"primaryKey" json:"id"`              // Primary key
	UserID  uint  `gorm:"uniqueIndex" json:"user_id"`        // Owning principal (one wallet per user)
	Balance int64 `gorm:"not null;default:0" json:"balance"` // Token balance
}
