package models

type ChatMessage struct {
	BaseModel
	UserID  string   `gorm:"not null;index"`
	Role    ChatRole `gorm:"type:varchar(20);not null"`
	Content string   `gorm:"not null"`
	Context string   // which assistant surface produced it: chat, learning, wellness
}
