package models

import (
	"time"

	"github.com/lib/pq"
)

type PriceRange string

const (
	PriceLow    PriceRange = "$"
	PriceMedium PriceRange = "$$"
	PriceHigh   PriceRange = "$$$"
)

func (p PriceRange) Valid() bool {
	switch p {
	case PriceLow, PriceMedium, PriceHigh:
		return true
	}
	return false
}

type Restaurant struct {
	ID            string         `json:"_id" bson:"_id" gorm:"primaryKey;size:24"`
	Name          string         `json:"name" bson:"name" gorm:"not null"`
	Phone         string         `json:"phone" bson:"phone" gorm:"not null"`
	ShortLocation string         `json:"shortLocation" bson:"shortLocation" gorm:"not null"`
	Description   string         `json:"description" bson:"description" gorm:"type:text;not null"`
	PriceRange    PriceRange     `json:"priceRange" bson:"priceRange" gorm:"size:3;not null"`
	URL           string         `json:"url" bson:"url" gorm:"not null"`
	Latitude      float64        `json:"latitude" bson:"latitude" gorm:"default:0"`
	Longitude     float64        `json:"longitude" bson:"longitude" gorm:"default:0"`
	Hashtags      pq.StringArray `json:"hashtags" bson:"hashtags" gorm:"type:text[];not null;default:'{}'"`
	Logo          *string        `json:"logo" bson:"logo"`
	Images        pq.StringArray `json:"images" bson:"images" gorm:"type:text[];not null;default:'{}'"`
	MenuImages    pq.StringArray `json:"menuImages" bson:"menuImages" gorm:"type:text[];not null;default:'{}'"`
	Rating        float64        `json:"rating" bson:"rating" gorm:"default:0;check:rating >= 0 AND rating <= 5"`
	ReviewCount   int            `json:"reviewCount" bson:"reviewCount" gorm:"default:0"`
	CreatedAt     time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// Normalize replaces nil lists with empty ones so they serialize as [].
func (r *Restaurant) Normalize() {
	if r.Hashtags == nil {
		r.Hashtags = pq.StringArray{}
	}
	if r.Images == nil {
		r.Images = pq.StringArray{}
	}
	if r.MenuImages == nil {
		r.MenuImages = pq.StringArray{}
	}
}

// SlotURLs returns the stored URLs currently held by slot.
func (r *Restaurant) SlotURLs(slot AssetSlot) []string {
	switch slot {
	case SlotLogo:
		if r.Logo != nil && *r.Logo != "" {
			return []string{*r.Logo}
		}
		return nil
	case SlotImages:
		return r.Images
	case SlotMenuImages:
		return r.MenuImages
	}
	return nil
}

type RestaurantView struct {
	Restaurant
	HashtagNames []*string `json:"hashtagNames"`
}

// RestaurantUpdate is the staged update-set of an update call. Nil fields are
// left untouched.
type RestaurantUpdate struct {
	Name          *string
	Phone         *string
	ShortLocation *string
	Description   *string
	PriceRange    *PriceRange
	URL           *string
	Latitude      *float64
	Longitude     *float64
	Hashtags      *[]string
	Logo          *string
	Images        *[]string
	MenuImages    *[]string
	UpdatedAt     time.Time
}

// IsEmpty reports whether no field has been staged. UpdatedAt is not a field.
func (u *RestaurantUpdate) IsEmpty() bool {
	return u.Name == nil && u.Phone == nil && u.ShortLocation == nil &&
		u.Description == nil && u.PriceRange == nil && u.URL == nil &&
		u.Latitude == nil && u.Longitude == nil && u.Hashtags == nil &&
		u.Logo == nil && u.Images == nil && u.MenuImages == nil
}

// Apply copies the staged fields onto r.
func (u *RestaurantUpdate) Apply(r *Restaurant) {
	if u.Name != nil {
		r.Name = *u.Name
	}
	if u.Phone != nil {
		r.Phone = *u.Phone
	}
	if u.ShortLocation != nil {
		r.ShortLocation = *u.ShortLocation
	}
	if u.Description != nil {
		r.Description = *u.Description
	}
	if u.PriceRange != nil {
		r.PriceRange = *u.PriceRange
	}
	if u.URL != nil {
		r.URL = *u.URL
	}
	if u.Latitude != nil {
		r.Latitude = *u.Latitude
	}
	if u.Longitude != nil {
		r.Longitude = *u.Longitude
	}
	if u.Hashtags != nil {
		r.Hashtags = append(pq.StringArray{}, *u.Hashtags...)
	}
	if u.Logo != nil {
		logo := *u.Logo
		r.Logo = &logo
	}
	if u.Images != nil {
		r.Images = append(pq.StringArray{}, *u.Images...)
	}
	if u.MenuImages != nil {
		r.MenuImages = append(pq.StringArray{}, *u.MenuImages...)
	}
	if !u.UpdatedAt.IsZero() {
		r.UpdatedAt = u.UpdatedAt
	}
}
