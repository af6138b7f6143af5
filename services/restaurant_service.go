package services

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"restaurant-directory/helper"
	"restaurant-directory/models"
	"restaurant-directory/repositories"
	"restaurant-directory/storage"
)

type RestaurantService interface {
	CreateRestaurant(ctx context.Context, form models.RestaurantForm) (*models.Restaurant, error)
	UpdateRestaurant(ctx context.Context, id string, form models.RestaurantForm) (*models.Restaurant, error)
	ListRestaurants(ctx context.Context, hashtagID string) ([]models.RestaurantView, error)
}

type restaurantService struct {
	restaurantRepo repositories.RestaurantRepository
	hashtagRepo    repositories.HashtagRepository
	assets         AssetService
	store          storage.BlobStore
	validator      *helper.Validator
	logger         *slog.Logger
	now            func() time.Time
	newID          func() string
}

func NewRestaurantService(
	restaurantRepo repositories.RestaurantRepository,
	hashtagRepo repositories.HashtagRepository,
	assets AssetService,
	store storage.BlobStore,
	validator *helper.Validator,
	logger *slog.Logger,
) RestaurantService {
	if logger == nil {
		logger = slog.Default()
	}
	return &restaurantService{
		restaurantRepo: restaurantRepo,
		hashtagRepo:    hashtagRepo,
		assets:         assets,
		store:          store,
		validator:      validator,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
		newID:          helper.NewObjectID,
	}
}

func (s *restaurantService) CreateRestaurant(ctx context.Context, form models.RestaurantForm) (*models.Restaurant, error) {
	input := models.CreateRestaurantInput{
		Name:          form.Fields["name"],
		Phone:         form.Fields["phone"],
		ShortLocation: form.Fields["shortLocation"],
		Description:   form.Fields["description"],
		PriceRange:    form.Fields["priceRange"],
		URL:           form.Fields["url"],
	}
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}

	latitude, err := parseCoordinate(form, "latitude")
	if err != nil {
		return nil, err
	}
	longitude, err := parseCoordinate(form, "longitude")
	if err != nil {
		return nil, err
	}
	if err := s.checkAssetURLs(form); err != nil {
		return nil, err
	}

	logo, err := s.storeLogo(ctx, form.Assets[models.SlotLogo], input.Name)
	if err != nil {
		return nil, err
	}
	images, err := s.assets.StoreAssets(ctx, models.SlotImages, form.Assets[models.SlotImages], input.Name)
	if err != nil {
		return nil, err
	}
	menuImages, err := s.assets.StoreAssets(ctx, models.SlotMenuImages, form.Assets[models.SlotMenuImages], input.Name)
	if err != nil {
		return nil, err
	}

	now := s.now()
	restaurant := &models.Restaurant{
		ID:            s.newID(),
		Name:          input.Name,
		Phone:         input.Phone,
		ShortLocation: input.ShortLocation,
		Description:   input.Description,
		PriceRange:    models.PriceRange(input.PriceRange),
		URL:           input.URL,
		Latitude:      latitude,
		Longitude:     longitude,
		Hashtags:      ParseHashtagIDs(form.Fields["hashtags"]),
		Logo:          logo,
		Images:        images,
		MenuImages:    menuImages,
		Rating:        0,
		ReviewCount:   0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// Blobs uploaded above stay orphaned if the insert fails.
	if err := s.restaurantRepo.Create(ctx, restaurant); err != nil {
		return nil, err
	}

	created, err := s.restaurantRepo.GetByID(ctx, restaurant.ID)
	if err != nil {
		return nil, s.translate(err, restaurant.ID)
	}
	s.logger.Info("restaurant created", "id", created.ID, "name", created.Name)
	return created, nil
}

func (s *restaurantService) UpdateRestaurant(ctx context.Context, id string, form models.RestaurantForm) (*models.Restaurant, error) {
	existing, err := s.restaurantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id)
	}

	update, err := stageScalarFields(form)
	if err != nil {
		return nil, err
	}

	var replaced []models.AssetSlot
	for _, slot := range models.AssetSlots {
		if models.HasNewUpload(form.Assets[slot]) {
			replaced = append(replaced, slot)
		}
	}
	if update.IsEmpty() && len(replaced) == 0 {
		return nil, models.NewValidationError("No valid fields to update")
	}

	if err := s.checkAssetURLs(form); err != nil {
		return nil, err
	}

	entityName := existing.Name
	if update.Name != nil {
		entityName = *update.Name
	}

	for _, slot := range replaced {
		inputs := form.Assets[slot]
		if slot == models.SlotLogo {
			inputs = pickLogo(inputs)
		}
		s.deleteSuperseded(ctx, existing.SlotURLs(slot), inputs)

		switch slot {
		case models.SlotLogo:
			logo, err := s.storeLogo(ctx, inputs, entityName)
			if err != nil {
				return nil, err
			}
			update.Logo = logo
		case models.SlotImages:
			urls, err := s.assets.StoreAssets(ctx, slot, inputs, entityName)
			if err != nil {
				return nil, err
			}
			update.Images = &urls
		case models.SlotMenuImages:
			urls, err := s.assets.StoreAssets(ctx, slot, inputs, entityName)
			if err != nil {
				return nil, err
			}
			update.MenuImages = &urls
		}
	}

	update.UpdatedAt = s.now()
	if err := s.restaurantRepo.Update(ctx, id, update); err != nil {
		return nil, s.translate(err, id)
	}

	updated, err := s.restaurantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id)
	}
	s.logger.Info("restaurant updated", "id", id, "replaced_slots", replaced)
	return updated, nil
}

func (s *restaurantService) ListRestaurants(ctx context.Context, hashtagID string) ([]models.RestaurantView, error) {
	restaurants, err := s.restaurantRepo.List(ctx, hashtagID)
	if err != nil {
		return nil, err
	}

	views := make([]models.RestaurantView, 0, len(restaurants))
	if len(restaurants) == 0 {
		return views, nil
	}

	seen := map[string]bool{}
	var ids []string
	for _, r := range restaurants {
		for _, h := range r.Hashtags {
			if !seen[h] {
				seen[h] = true
				ids = append(ids, h)
			}
		}
	}

	hashtags, err := s.hashtagRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(hashtags))
	for _, h := range hashtags {
		names[h.ID] = h.Name
	}

	for _, r := range restaurants {
		view := models.RestaurantView{Restaurant: r, HashtagNames: make([]*string, 0, len(r.Hashtags))}
		for _, h := range r.Hashtags {
			if name, ok := names[h]; ok {
				view.HashtagNames = append(view.HashtagNames, &name)
			} else {
				view.HashtagNames = append(view.HashtagNames, nil)
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// storeLogo stores the input chosen by pickLogo.
func (s *restaurantService) storeLogo(ctx context.Context, inputs []models.AssetInput, entityName string) (*string, error) {
	urls, err := s.assets.StoreAssets(ctx, models.SlotLogo, pickLogo(inputs), entityName)
	if err != nil || len(urls) == 0 {
		return nil, err
	}
	return &urls[0], nil
}

// pickLogo returns the logo input to keep: the first named upload, or
// else the first non-empty URL. Files win over re-submitted URLs.
func pickLogo(inputs []models.AssetInput) []models.AssetInput {
	var url models.AssetInput
	for _, input := range inputs {
		switch in := input.(type) {
		case models.NewUpload:
			if in.Filename != "" {
				return []models.AssetInput{in}
			}
		case models.ExistingURL:
			if in != "" && url == nil {
				url = in
			}
		}
	}
	if url == nil {
		return nil
	}
	return []models.AssetInput{url}
}

// checkAssetURLs runs before any blob is written or deleted.
func (s *restaurantService) checkAssetURLs(form models.RestaurantForm) error {
	for _, slot := range models.AssetSlots {
		if err := s.assets.CheckExistingURLs(slot, form.Assets[slot]); err != nil {
			return err
		}
	}
	return nil
}

// deleteSuperseded removes the previous URLs of a slot that are not
// re-submitted. Failures are logged and skipped.
func (s *restaurantService) deleteSuperseded(ctx context.Context, previous []string, inputs []models.AssetInput) {
	kept := map[string]bool{}
	for _, input := range inputs {
		if url, ok := input.(models.ExistingURL); ok {
			kept[string(url)] = true
		}
	}
	for _, url := range previous {
		if kept[url] {
			continue
		}
		if err := s.store.Delete(ctx, url); err != nil {
			s.logger.Warn("failed to delete superseded asset", "url", url, "error", err)
		}
	}
}

func (s *restaurantService) translate(err error, id string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return &models.ErrorNotFound{Resource: "Restaurant", ID: id}
	}
	return err
}

var requiredTextFields = []string{"name", "phone", "shortLocation", "description", "priceRange", "url"}

func stageScalarFields(form models.RestaurantForm) (models.RestaurantUpdate, error) {
	var update models.RestaurantUpdate

	for _, key := range requiredTextFields {
		v, ok := form.Value(key)
		if !ok {
			continue
		}
		if strings.TrimSpace(v) == "" {
			return update, models.NewValidationError("%s cannot be empty", key)
		}
		value := v
		switch key {
		case "name":
			update.Name = &value
		case "phone":
			update.Phone = &value
		case "shortLocation":
			update.ShortLocation = &value
		case "description":
			update.Description = &value
		case "priceRange":
			price := models.PriceRange(value)
			if !price.Valid() {
				return update, models.NewValidationError("priceRange must be one of $, $$, $$$")
			}
			update.PriceRange = &price
		case "url":
			update.URL = &value
		}
	}

	if _, ok := form.Value("latitude"); ok {
		lat, err := parseCoordinate(form, "latitude")
		if err != nil {
			return update, err
		}
		update.Latitude = &lat
	}
	if _, ok := form.Value("longitude"); ok {
		lng, err := parseCoordinate(form, "longitude")
		if err != nil {
			return update, err
		}
		update.Longitude = &lng
	}
	if v, ok := form.Value("hashtags"); ok {
		ids := ParseHashtagIDs(v)
		update.Hashtags = &ids
	}
	return update, nil
}

// parseCoordinate returns 0 when key is absent or blank.
func parseCoordinate(form models.RestaurantForm, key string) (float64, error) {
	v, ok := form.Value(key)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, models.NewValidationError("%s must be a number", key)
	}
	return f, nil
}

// ParseHashtagIDs splits a comma separated id list, dropping blanks and
// repeated ids.
func ParseHashtagIDs(raw string) []string {
	ids := []string{}
	seen := map[string]bool{}
	for _, part := range strings.Split(raw, ",") {
		id := strings.TrimSpace(part)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
