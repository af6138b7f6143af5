package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"restaurant-directory/helper"
	"restaurant-directory/media"
	"restaurant-directory/models"
	"restaurant-directory/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type RestaurantServiceTestSuite struct {
	suite.Suite
	ctx         context.Context
	db          *repositories.MemoryStore
	restaurants repositories.RestaurantRepository
	store       *faultyStore
	service     *restaurantService
	clock       time.Time
}

func (s *RestaurantServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = repositories.NewMemoryStore()
	s.restaurants = s.db.Restaurants()
	s.store = newFaultyStore()
	s.clock = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.service = s.newService(s.restaurants)
}

func (s *RestaurantServiceTestSuite) newService(repo repositories.RestaurantRepository) *restaurantService {
	assets := NewAssetService(s.store, media.NewNormalizer(400, 400, 90), 2, nil)
	svc := NewRestaurantService(repo, s.db.Hashtags(), assets, s.store, helper.NewValidator(), nil).(*restaurantService)
	svc.now = func() time.Time { return s.clock }
	return svc
}

func validForm() models.RestaurantForm {
	return models.RestaurantForm{
		Fields: map[string]string{
			"name":          "Cafe X",
			"phone":         "555",
			"shortLocation": "Downtown",
			"description":   "Coffee",
			"priceRange":    "$$",
			"url":           "http://x.test",
			"latitude":      "12.5",
		},
		Assets: map[models.AssetSlot][]models.AssetInput{},
	}
}

func (s *RestaurantServiceTestSuite) createWithImages(images ...models.AssetInput) *models.Restaurant {
	form := validForm()
	form.Assets[models.SlotImages] = images
	created, err := s.service.CreateRestaurant(s.ctx, form)
	s.Require().NoError(err)
	return created
}

func (s *RestaurantServiceTestSuite) TestCreateWithoutFiles() {
	created, err := s.service.CreateRestaurant(s.ctx, validForm())
	s.Require().NoError(err)

	s.Len(created.ID, 24)
	s.Equal("Cafe X", created.Name)
	s.Equal("555", created.Phone)
	s.Equal("Downtown", created.ShortLocation)
	s.Equal("Coffee", created.Description)
	s.Equal(models.PriceMedium, created.PriceRange)
	s.Equal("http://x.test", created.URL)
	s.Equal(12.5, created.Latitude)
	s.Equal(0.0, created.Longitude)
	s.Nil(created.Logo)
	s.NotNil(created.Images)
	s.Empty(created.Images)
	s.NotNil(created.MenuImages)
	s.Empty(created.MenuImages)
	s.Empty(created.Hashtags)
	s.Equal(0.0, created.Rating)
	s.Equal(0, created.ReviewCount)
	s.Equal(s.clock, created.CreatedAt)
	s.Equal(created.CreatedAt, created.UpdatedAt)
	s.Equal(0, s.store.Len())
}

func (s *RestaurantServiceTestSuite) TestCreateMissingRequiredFieldHasNoSideEffects() {
	for _, field := range requiredTextFields {
		form := validForm()
		delete(form.Fields, field)
		form.Assets[models.SlotLogo] = []models.AssetInput{textUpload("logo.txt", "x")}

		_, err := s.service.CreateRestaurant(s.ctx, form)

		var validationErr *models.ErrorValidation
		s.Require().ErrorAs(err, &validationErr, field)
		s.Contains(validationErr.Fields, field)
	}

	all, err := s.restaurants.List(s.ctx, "")
	s.Require().NoError(err)
	s.Empty(all)
	s.Equal(0, s.store.puts)
}

func (s *RestaurantServiceTestSuite) TestCreateRejectsBadCoordinatesAndPrice() {
	form := validForm()
	form.Fields["longitude"] = "east"
	_, err := s.service.CreateRestaurant(s.ctx, form)
	var validationErr *models.ErrorValidation
	s.ErrorAs(err, &validationErr)

	form = validForm()
	form.Fields["priceRange"] = "$$$$"
	_, err = s.service.CreateRestaurant(s.ctx, form)
	s.ErrorAs(err, &validationErr)

	s.Equal(0, s.store.puts)
}

func (s *RestaurantServiceTestSuite) TestCreateStoresAssetsAndHashtags() {
	form := validForm()
	form.Fields["hashtags"] = "h1, h2,,h1"
	form.Assets[models.SlotLogo] = []models.AssetInput{
		models.NewUpload{Filename: "logo.png", Content: pngBytes(s.T(), 800, 800)},
		textUpload("second-logo.txt", "ignored"),
	}
	form.Assets[models.SlotImages] = []models.AssetInput{textUpload("a.txt", "a"), textUpload("b.txt", "b")}
	form.Assets[models.SlotMenuImages] = []models.AssetInput{textUpload("menu.txt", "m")}

	created, err := s.service.CreateRestaurant(s.ctx, form)
	s.Require().NoError(err)

	s.Equal([]string{"h1", "h2"}, []string(created.Hashtags))
	s.Require().NotNil(created.Logo)
	s.Contains(*created.Logo, "/restaurants/cafex/logos/")
	s.Len(created.Images, 2)
	s.Len(created.MenuImages, 1)
	s.Contains(created.MenuImages[0], "/restaurants/cafex/menus/")
	s.Equal(4, s.store.Len())
}

func (s *RestaurantServiceTestSuite) TestCreateInsertFailureLeavesUploadedBlobs() {
	svc := s.newService(failingRestaurantRepo{RestaurantRepository: s.restaurants})
	form := validForm()
	form.Assets[models.SlotImages] = []models.AssetInput{textUpload("a.txt", "a")}

	_, err := svc.CreateRestaurant(s.ctx, form)

	var persistenceErr *models.ErrorPersistence
	s.ErrorAs(err, &persistenceErr)
	s.Equal(1, s.store.Len())
}

func (s *RestaurantServiceTestSuite) TestUpdateReplacesImagesInInputOrder() {
	created := s.createWithImages(textUpload("old1.txt", "old1"), textUpload("old2.txt", "old2"))
	oldImages := append([]string(nil), created.Images...)

	form := models.RestaurantForm{Assets: map[models.AssetSlot][]models.AssetInput{
		models.SlotImages: {textUpload("n1.txt", "new1"), textUpload("n2.txt", "new2"), textUpload("n3.txt", "new3")},
	}}
	s.clock = s.clock.Add(time.Hour)
	updated, err := s.service.UpdateRestaurant(s.ctx, created.ID, form)
	s.Require().NoError(err)

	for _, url := range oldImages {
		_, ok := s.store.Get(url)
		s.False(ok, url)
	}
	s.Require().Len(updated.Images, 3)
	for i, want := range []string{"new1", "new2", "new3"} {
		obj, ok := s.store.Get(updated.Images[i])
		s.Require().True(ok)
		s.Equal(want, string(obj.Data))
	}
	s.Equal(s.clock, updated.UpdatedAt)
	s.Equal(created.CreatedAt, updated.CreatedAt)
}

func (s *RestaurantServiceTestSuite) TestUpdateLeavesOmittedSlotsUntouched() {
	created := s.createWithImages(textUpload("keep.txt", "keep"))

	form := models.RestaurantForm{
		Fields: map[string]string{"phone": "777"},
		Assets: map[models.AssetSlot][]models.AssetInput{
			models.SlotMenuImages: {textUpload("menu.txt", "menu")},
		},
	}
	updated, err := s.service.UpdateRestaurant(s.ctx, created.ID, form)
	s.Require().NoError(err)

	s.Equal("777", updated.Phone)
	s.Equal(created.Images, updated.Images)
	s.Len(updated.MenuImages, 1)
	s.Empty(s.store.deletes)
}

func (s *RestaurantServiceTestSuite) TestUpdateKeepsResubmittedURLs() {
	created := s.createWithImages(textUpload("a.txt", "a"), textUpload("b.txt", "b"))
	kept, dropped := created.Images[0], created.Images[1]

	form := models.RestaurantForm{Assets: map[models.AssetSlot][]models.AssetInput{
		models.SlotImages: {models.ExistingURL(kept), textUpload("c.txt", "c")},
	}}
	updated, err := s.service.UpdateRestaurant(s.ctx, created.ID, form)
	s.Require().NoError(err)

	s.Require().Len(updated.Images, 2)
	s.Equal(kept, updated.Images[0])
	s.Equal([]string{dropped}, s.store.deletes)
	_, ok := s.store.Get(kept)
	s.True(ok)
}

func (s *RestaurantServiceTestSuite) TestUpdateReplacesLogoUnderNewName() {
	form := validForm()
	form.Assets[models.SlotLogo] = []models.AssetInput{textUpload("logo.txt", "v1")}
	created, err := s.service.CreateRestaurant(s.ctx, form)
	s.Require().NoError(err)
	s.Require().NotNil(created.Logo)
	oldLogo := *created.Logo

	updated, err := s.service.UpdateRestaurant(s.ctx, created.ID, models.RestaurantForm{
		Fields: map[string]string{"name": "Cafe Y"},
		Assets: map[models.AssetSlot][]models.AssetInput{models.SlotLogo: {textUpload("logo.txt", "v2")}},
	})
	s.Require().NoError(err)

	s.Equal("Cafe Y", updated.Name)
	s.Require().NotNil(updated.Logo)
	s.Contains(*updated.Logo, "/restaurants/cafey/logos/")
	s.Equal([]string{oldLogo}, s.store.deletes)
}

func (s *RestaurantServiceTestSuite) TestUpdateLogoPrefersNewFileOverResubmittedURL() {
	form := validForm()
	form.Assets[models.SlotLogo] = []models.AssetInput{textUpload("logo.txt", "v1")}
	created, err := s.service.CreateRestaurant(s.ctx, form)
	s.Require().NoError(err)
	s.Require().NotNil(created.Logo)
	oldLogo := *created.Logo
	putsBefore := s.store.puts

	updated, err := s.service.UpdateRestaurant(s.ctx, created.ID, models.RestaurantForm{
		Assets: map[models.AssetSlot][]models.AssetInput{models.SlotLogo: {
			models.ExistingURL(oldLogo),
			textUpload("logo.txt", "v2"),
		}},
	})
	s.Require().NoError(err)

	s.Equal(putsBefore+1, s.store.puts)
	s.Require().NotNil(updated.Logo)
	s.NotEqual(oldLogo, *updated.Logo)
	obj, ok := s.store.Get(*updated.Logo)
	s.Require().True(ok)
	s.Equal("v2", string(obj.Data))
	s.Equal([]string{oldLogo}, s.store.deletes)
}

func (s *RestaurantServiceTestSuite) TestCreateRejectsForeignAssetURLs() {
	form := validForm()
	form.Assets[models.SlotLogo] = []models.AssetInput{textUpload("logo.txt", "x")}
	form.Assets[models.SlotImages] = []models.AssetInput{models.ExistingURL("https://evil.example/x.jpg")}

	_, err := s.service.CreateRestaurant(s.ctx, form)

	var validationErr *models.ErrorValidation
	s.Require().ErrorAs(err, &validationErr)
	s.Contains(validationErr.Fields, "images")
	s.Equal(0, s.store.puts)
	all, err := s.restaurants.List(s.ctx, "")
	s.Require().NoError(err)
	s.Empty(all)
}

func (s *RestaurantServiceTestSuite) TestUpdateRejectsForeignAssetURLsBeforeDeleting() {
	created := s.createWithImages(textUpload("a.txt", "a"))
	putsBefore := s.store.puts

	_, err := s.service.UpdateRestaurant(s.ctx, created.ID, models.RestaurantForm{
		Assets: map[models.AssetSlot][]models.AssetInput{models.SlotImages: {
			models.ExistingURL("https://evil.example/x.jpg"),
			textUpload("b.txt", "b"),
		}},
	})

	var validationErr *models.ErrorValidation
	s.Require().ErrorAs(err, &validationErr)
	s.Empty(s.store.deletes)
	s.Equal(putsBefore, s.store.puts)
	stored, err := s.restaurants.GetByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created.Images, stored.Images)
}

func (s *RestaurantServiceTestSuite) TestUpdateDeleteFailureDoesNotBlockNewAssets() {
	created := s.createWithImages(textUpload("a.txt", "a"))
	s.store.deleteErr = errNetwork

	updated, err := s.service.UpdateRestaurant(s.ctx, created.ID, models.RestaurantForm{
		Assets: map[models.AssetSlot][]models.AssetInput{models.SlotImages: {textUpload("b.txt", "b")}},
	})
	s.Require().NoError(err)

	s.Len(s.store.deletes, 1)
	s.Require().Len(updated.Images, 1)
	s.NotEqual(created.Images[0], updated.Images[0])
}

func (s *RestaurantServiceTestSuite) TestUpdateUploadFailurePropagates() {
	created := s.createWithImages(textUpload("a.txt", "a"))
	s.store.putErr = errNetwork

	_, err := s.service.UpdateRestaurant(s.ctx, created.ID, models.RestaurantForm{
		Assets: map[models.AssetSlot][]models.AssetInput{models.SlotImages: {textUpload("b.txt", "b")}},
	})

	var storageErr *models.ErrorStorage
	s.ErrorAs(err, &storageErr)
}

func (s *RestaurantServiceTestSuite) TestUpdateWithNothingFails() {
	created := s.createWithImages()
	s.clock = s.clock.Add(time.Hour)

	_, err := s.service.UpdateRestaurant(s.ctx, created.ID, models.RestaurantForm{
		Fields: map[string]string{"rating": "5", "unknown": "x"},
		Assets: map[models.AssetSlot][]models.AssetInput{
			models.SlotImages: {models.NewUpload{Filename: ""}},
		},
	})

	var validationErr *models.ErrorValidation
	s.Require().ErrorAs(err, &validationErr)
	s.Equal("No valid fields to update", validationErr.Message)

	stored, err := s.restaurants.GetByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created, stored)
}

func (s *RestaurantServiceTestSuite) TestUpdateNotFound() {
	_, err := s.service.UpdateRestaurant(s.ctx, "missing", models.RestaurantForm{
		Fields: map[string]string{"name": "x"},
	})

	var notFound *models.ErrorNotFound
	s.ErrorAs(err, &notFound)
}

func (s *RestaurantServiceTestSuite) TestUpdateScalarFields() {
	created := s.createWithImages()

	updated, err := s.service.UpdateRestaurant(s.ctx, created.ID, models.RestaurantForm{
		Fields: map[string]string{"latitude": "-3.25", "longitude": "100", "hashtags": "", "priceRange": "$"},
	})
	s.Require().NoError(err)
	s.Equal(-3.25, updated.Latitude)
	s.Equal(100.0, updated.Longitude)
	s.Empty(updated.Hashtags)
	s.Equal(models.PriceLow, updated.PriceRange)
	s.Equal("Cafe X", updated.Name)

	for _, fields := range []map[string]string{
		{"latitude": "north"},
		{"priceRange": "cheap"},
		{"name": "   "},
	} {
		_, err := s.service.UpdateRestaurant(s.ctx, created.ID, models.RestaurantForm{Fields: fields})
		var validationErr *models.ErrorValidation
		s.ErrorAs(err, &validationErr, "%v", fields)
	}
}

func (s *RestaurantServiceTestSuite) TestListAnnotatesHashtagNames() {
	hashtags := s.db.Hashtags()
	s.Require().NoError(hashtags.Create(s.ctx, &models.Hashtag{ID: "h1", Name: "Coffee"}))
	s.Require().NoError(hashtags.Create(s.ctx, &models.Hashtag{ID: "h2", Name: "Brunch"}))

	form := validForm()
	form.Fields["hashtags"] = "h2,ghost,h1"
	tagged, err := s.service.CreateRestaurant(s.ctx, form)
	s.Require().NoError(err)

	other := validForm()
	other.Fields["name"] = "Other"
	other.Fields["hashtags"] = "h2"
	_, err = s.service.CreateRestaurant(s.ctx, other)
	s.Require().NoError(err)

	views, err := s.service.ListRestaurants(s.ctx, "h1")
	s.Require().NoError(err)
	s.Require().Len(views, 1)
	s.Equal(tagged.ID, views[0].ID)
	s.Require().Len(views[0].HashtagNames, 3)
	s.Equal("Brunch", *views[0].HashtagNames[0])
	s.Nil(views[0].HashtagNames[1])
	s.Equal("Coffee", *views[0].HashtagNames[2])

	all, err := s.service.ListRestaurants(s.ctx, "")
	s.Require().NoError(err)
	s.Len(all, 2)

	none, err := s.service.ListRestaurants(s.ctx, "nope")
	s.Require().NoError(err)
	s.NotNil(none)
	s.Empty(none)
}

func TestRestaurantServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RestaurantServiceTestSuite))
}

func TestParseHashtagIDs(t *testing.T) {
	assert.Equal(t, []string{}, ParseHashtagIDs(""))
	assert.Equal(t, []string{"a", "b"}, ParseHashtagIDs("a,b,a, ,"))
	assert.Equal(t, []string{"x y"}, ParseHashtagIDs("  x y  "))
}

func TestPickLogo(t *testing.T) {
	file := textUpload("logo.png", "x")
	assert.Equal(t, []models.AssetInput{file},
		pickLogo([]models.AssetInput{models.ExistingURL("u"), models.NewUpload{}, file}))
	assert.Equal(t, []models.AssetInput{models.ExistingURL("u")},
		pickLogo([]models.AssetInput{models.ExistingURL(""), models.ExistingURL("u"), models.NewUpload{}}))
	assert.Nil(t, pickLogo(nil))
}

type failingRestaurantRepo struct {
	repositories.RestaurantRepository
}

func (failingRestaurantRepo) Create(ctx context.Context, restaurant *models.Restaurant) error {
	return &models.ErrorPersistence{Op: "insert restaurant", Err: errors.New("connection refused")}
}
