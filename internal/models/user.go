package models

// User is a ledger owner identified by the chat they talk to the bot from.
type User struct {
	Base
	Name     string    `gorm:"size:50;not null" json:"name"`
	ChatID   int64     `gorm:"uniqueIndex;not null" json:"chat_id"`
	Accounts []Account `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"accounts,omitempty"`
}
