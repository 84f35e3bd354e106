package domain

// Story moderation statuses
const (
	StoryApproved = "approved" // Classifier allowed the content
	StoryFlagged  = "flagged"  // Classifier rejected the content
)

// Story Model (owned content record, moderated on insert)
type Story struct {
	ID        uint   `gorm:"primaryKey" json:"id"`              // Primary key
	UserID    uint   `gorm:"index" json:"user_id"`              // Owning principal, stamped by the service
	Title     string `json:"title"`                             // Story title
	Body      string `json:"body"`                              // Story text
	MediaURL  string `json:"media_url"`                         // Optional attached media
	Status    string `json:"status"`                            // Moderation status: approved, flagged
	CreatedAt int64  `gorm:"autoCreateTime:milli" json:"created_at"` // Timestamp of creation in milliseconds
}
