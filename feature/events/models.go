package events

import "time"

// PetEvent is one crawled pet fair, mirrored in pet_event.
type PetEvent struct {
	ID              uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Hash            string    `gorm:"column:hash;type:varchar(64);not null;uniqueIndex" json:"hash"`
	Source          *string   `gorm:"column:source;type:varchar(100)" json:"source"`
	EventTitle      *string   `gorm:"column:event_title;type:varchar(255)" json:"event_title"`
	EventURL        *string   `gorm:"column:event_url;type:varchar(1000)" json:"event_url"`
	Location        *string   `gorm:"column:location;type:varchar(255)" json:"location"`
	EventDate       *string   `gorm:"column:event_date;type:varchar(100)" json:"event_date"`
	ReservationDate *string   `gorm:"column:reservation_date;type:varchar(255)" json:"reservation_date"`
	EventTime       *string   `gorm:"column:event_time;type:varchar(100)" json:"event_time"`
	EventMoney      *string   `gorm:"column:event_money;type:varchar(255)" json:"event_money"`
	ImagePath       *string   `gorm:"column:image_path;type:varchar(1000)" json:"image_path"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides the table name used by PetEvent to `pet_event`
func (PetEvent) TableName() string {
	return "pet_event"
}
