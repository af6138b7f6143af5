package repositories

import (
	"context"
	"errors"

	"restaurant-directory/models"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type restaurantRepository struct {
	db *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

func (r *restaurantRepository) Create(ctx context.Context, restaurant *models.Restaurant) error {
	restaurant.Normalize()
	if err := r.db.WithContext(ctx).Create(restaurant).Error; err != nil {
		return persistenceError("create restaurant", err)
	}
	return nil
}

func (r *restaurantRepository) GetByID(ctx context.Context, id string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&restaurant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, persistenceError("get restaurant", err)
	}
	restaurant.Normalize()
	return &restaurant, nil
}

func (r *restaurantRepository) List(ctx context.Context, hashtagID string) ([]models.Restaurant, error) {
	restaurants := []models.Restaurant{}
	query := r.db.WithContext(ctx).Order("created_at")
	if hashtagID != "" {
		query = query.Where("? = ANY(hashtags)", hashtagID)
	}
	if err := query.Find(&restaurants).Error; err != nil {
		return nil, persistenceError("list restaurants", err)
	}
	for i := range restaurants {
		restaurants[i].Normalize()
	}
	return restaurants, nil
}

func (r *restaurantRepository) Update(ctx context.Context, id string, update models.RestaurantUpdate) error {
	res := r.db.WithContext(ctx).Model(&models.Restaurant{}).Where("id = ?", id).Updates(updateColumns(update))
	if res.Error != nil {
		return persistenceError("update restaurant", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func updateColumns(u models.RestaurantUpdate) map[string]interface{} {
	cols := map[string]interface{}{"updated_at": u.UpdatedAt}
	if u.Name != nil {
		cols["name"] = *u.Name
	}
	if u.Phone != nil {
		cols["phone"] = *u.Phone
	}
	if u.ShortLocation != nil {
		cols["short_location"] = *u.ShortLocation
	}
	if u.Description != nil {
		cols["description"] = *u.Description
	}
	if u.PriceRange != nil {
		cols["price_range"] = *u.PriceRange
	}
	if u.URL != nil {
		cols["url"] = *u.URL
	}
	if u.Latitude != nil {
		cols["latitude"] = *u.Latitude
	}
	if u.Longitude != nil {
		cols["longitude"] = *u.Longitude
	}
	if u.Hashtags != nil {
		cols["hashtags"] = pq.StringArray(*u.Hashtags)
	}
	if u.Logo != nil {
		cols["logo"] = *u.Logo
	}
	if u.Images != nil {
		cols["images"] = pq.StringArray(*u.Images)
	}
	if u.MenuImages != nil {
		cols["menu_images"] = pq.StringArray(*u.MenuImages)
	}
	return cols
}
