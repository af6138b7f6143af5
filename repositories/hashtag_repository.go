package repositories

import (
	"context"
	"errors"
	"strings"

	"restaurant-directory/models"

	"gorm.io/gorm"
)

type hashtagRepository struct {
	db *gorm.DB
}

func NewHashtagRepository(db *gorm.DB) HashtagRepository {
	return &hashtagRepository{db: db}
}

func (r *hashtagRepository) Create(ctx context.Context, hashtag *models.Hashtag) error {
	if err := r.db.WithContext(ctx).Create(hashtag).Error; err != nil {
		return persistenceError("create hashtag", err)
	}
	return nil
}

func (r *hashtagRepository) GetByID(ctx context.Context, id string) (*models.Hashtag, error) {
	var hashtag models.Hashtag
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&hashtag).Error
	if err != nil {
		return nil, r.translate("get hashtag", err)
	}
	return &hashtag, nil
}

func (r *hashtagRepository) GetByName(ctx context.Context, name, excludeID string) (*models.Hashtag, error) {
	var hashtag models.Hashtag
	query := r.db.WithContext(ctx).Where("name = ?", name)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.First(&hashtag).Error; err != nil {
		return nil, r.translate("get hashtag by name", err)
	}
	return &hashtag, nil
}

func (r *hashtagRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Hashtag, error) {
	hashtags := []models.Hashtag{}
	if len(ids) == 0 {
		return hashtags, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&hashtags).Error; err != nil {
		return nil, persistenceError("get hashtags", err)
	}
	return hashtags, nil
}

func (r *hashtagRepository) Search(ctx context.Context, search string) ([]models.Hashtag, error) {
	hashtags := []models.Hashtag{}
	query := r.db.WithContext(ctx).Order("name")
	if search != "" {
		query = query.Where("LOWER(name) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(search))+"%")
	}
	if err := query.Find(&hashtags).Error; err != nil {
		return nil, persistenceError("search hashtags", err)
	}
	return hashtags, nil
}

func (r *hashtagRepository) UpdateName(ctx context.Context, id, name string) error {
	res := r.db.WithContext(ctx).Model(&models.Hashtag{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return persistenceError("update hashtag", res.Error)
	}
	return nil
}

func (r *hashtagRepository) translate(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return persistenceError(op, err)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
