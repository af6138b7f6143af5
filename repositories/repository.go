package repositories

import (
	"context"
	"errors"

	"restaurant-directory/models"
)

var (
	ErrNotFound     = errors.New("record not found")
	errDuplicateKey = errors.New("duplicate key")
)

type RestaurantRepository interface {
	Create(ctx context.Context, restaurant *models.Restaurant) error
	GetByID(ctx context.Context, id string) (*models.Restaurant, error)
	// List returns all restaurants, or only those referencing hashtagID when
	// it is not empty.
	List(ctx context.Context, hashtagID string) ([]models.Restaurant, error)
	Update(ctx context.Context, id string, update models.RestaurantUpdate) error
}

type HashtagRepository interface {
	Create(ctx context.Context, hashtag *models.Hashtag) error
	GetByID(ctx context.Context, id string) (*models.Hashtag, error)
	// GetByName matches the name exactly. excludeID, when set, is ignored
	// in the match.
	GetByName(ctx context.Context, name, excludeID string) (*models.Hashtag, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Hashtag, error)
	// Search matches names containing search, case-insensitively.
	Search(ctx context.Context, search string) ([]models.Hashtag, error)
	UpdateName(ctx context.Context, id, name string) error
}

func persistenceError(op string, err error) error {
	return &models.ErrorPersistence{Op: op, Err: err}
}
