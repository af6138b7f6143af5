package models

type Hashtag struct {
	ID   string `json:"_id" bson:"_id" gorm:"primaryKey;size:64"`
	Name string `json:"name" bson:"name" gorm:"index;not null"`
}
