package models

// Currency is immutable reference data seeded by migrations.
type Currency struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ISOCode string `gorm:"column:iso_code;size:3;uniqueIndex;not null" json:"iso_code"`
	Name    string `gorm:"size:50;not null" json:"name"`
}

// Choice renders the currency the way fuzzy matching compares it.
func (c Currency) Choice() string {
	return c.ISOCode + ":" + c.Name
}
