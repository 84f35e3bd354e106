package domain

// Transaction types
const (
	TxEarn  = "earn"  // Credits the owner's wallet
	TxSpend = "spend" // Debits the owner's wallet (requires sufficient balance)
)

// Transaction Model (owned ledger record)
type Transaction struct {
	ID        uint   `gorm:"primaryKey" json:"id"`                   // Primary key
	UserID    uint   `gorm:"index" json:"user_id"`                   // Owning principal, stamped by the service
	Type      string `json:"type"`                                   // Transaction type: earn, spend
	Amount    int64  `json:"amount"`                                 // Token amount
	Reason    string `json:"reason"`                                 // Free-form reason (e.g. "daily")
	CreatedAt int64  `gorm:"autoCreateTime:milli" json:"created_at"` // Timestamp of creation in milliseconds
}
