// services/hashtag_service.go
package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"restaurant-directory/helper"
	"restaurant-directory/models"
	"restaurant-directory/repositories"
)

const hashtagIDLength = 9

type HashtagService interface {
	CreateHashtag(ctx context.Context, req models.CreateHashtagRequest) (*models.Hashtag, error)
	SearchHashtags(ctx context.Context, search string) ([]models.Hashtag, error)
	UpdateHashtag(ctx context.Context, id string, req models.UpdateHashtagRequest) (*models.Hashtag, error)
}

type hashtagService struct {
	hashtagRepo repositories.HashtagRepository
	logger      *slog.Logger
	newID       func() string
}

func NewHashtagService(hashtagRepo repositories.HashtagRepository, logger *slog.Logger) HashtagService {
	if logger == nil {
		logger = slog.Default()
	}
	return &hashtagService{
		hashtagRepo: hashtagRepo,
		logger:      logger,
		newID:       func() string { return helper.NewShortID(hashtagIDLength) },
	}
}

// CreateHashtag checks the name before inserting. Two concurrent creates with
// the same name can both pass the check.
func (s *hashtagService) CreateHashtag(ctx context.Context, req models.CreateHashtagRequest) (*models.Hashtag, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, models.NewValidationError("Name is required")
	}

	// Check if hashtag already exists
	_, err := s.hashtagRepo.GetByName(ctx, name, "")
	if err == nil {
		return nil, &models.ErrorConflict{Message: "Hashtag already exists"}
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	id := strings.TrimSpace(req.ID)
	if id != "" {
		_, err := s.hashtagRepo.GetByID(ctx, id)
		if err == nil {
			return nil, &models.ErrorConflict{Message: "Hashtag id already exists"}
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
	} else {
		id = s.newID()
	}

	hashtag := &models.Hashtag{ID: id, Name: name}
	if err := s.hashtagRepo.Create(ctx, hashtag); err != nil {
		return nil, err
	}

	created, err := s.hashtagRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id)
	}
	s.logger.Info("hashtag created", "id", created.ID, "name", created.Name)
	return created, nil
}

func (s *hashtagService) SearchHashtags(ctx context.Context, search string) ([]models.Hashtag, error) {
	return s.hashtagRepo.Search(ctx, strings.TrimSpace(search))
}

func (s *hashtagService) UpdateHashtag(ctx context.Context, id string, req models.UpdateHashtagRequest) (*models.Hashtag, error) {
	if _, err := s.hashtagRepo.GetByID(ctx, id); err != nil {
		return nil, s.translate(err, id)
	}

	if req.Name == nil {
		return nil, models.NewValidationError("No valid fields to update")
	}
	name := strings.TrimSpace(*req.Name)
	if name == "" {
		return nil, models.NewValidationError("Name cannot be empty")
	}

	_, err := s.hashtagRepo.GetByName(ctx, name, id)
	if err == nil {
		return nil, &models.ErrorConflict{Message: "Hashtag name already exists"}
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	if err := s.hashtagRepo.UpdateName(ctx, id, name); err != nil {
		return nil, s.translate(err, id)
	}

	updated, err := s.hashtagRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id)
	}
	return updated, nil
}

func (s *hashtagService) translate(err error, id string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return &models.ErrorNotFound{Resource: "Hashtag", ID: id}
	}
	return err
}
