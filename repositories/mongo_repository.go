package repositories

import (
	"context"
	"errors"
	"regexp"

	"restaurant-directory/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	restaurantCollection = "restaurants"
	hashtagCollection    = "hashtags"
)

type mongoRestaurantRepository struct {
	coll *mongo.Collection
}

func NewMongoRestaurantRepository(db *mongo.Database) RestaurantRepository {
	return &mongoRestaurantRepository{coll: db.Collection(restaurantCollection)}
}

func (r *mongoRestaurantRepository) Create(ctx context.Context, restaurant *models.Restaurant) error {
	restaurant.Normalize()
	if _, err := r.coll.InsertOne(ctx, restaurant); err != nil {
		return persistenceError("insert restaurant", err)
	}
	return nil
}

func (r *mongoRestaurantRepository) GetByID(ctx context.Context, id string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&restaurant); err != nil {
		return nil, translateMongo("find restaurant", err)
	}
	restaurant.Normalize()
	return &restaurant, nil
}

func (r *mongoRestaurantRepository) List(ctx context.Context, hashtagID string) ([]models.Restaurant, error) {
	filter := bson.M{}
	if hashtagID != "" {
		filter["hashtags"] = hashtagID
	}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, persistenceError("find restaurants", err)
	}
	restaurants := []models.Restaurant{}
	if err := cursor.All(ctx, &restaurants); err != nil {
		return nil, persistenceError("decode restaurants", err)
	}
	for i := range restaurants {
		restaurants[i].Normalize()
	}
	return restaurants, nil
}

func (r *mongoRestaurantRepository) Update(ctx context.Context, id string, update models.RestaurantUpdate) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updateDocument(update)})
	if err != nil {
		return persistenceError("update restaurant", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func updateDocument(u models.RestaurantUpdate) bson.M {
	set := bson.M{"updatedAt": u.UpdatedAt}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Phone != nil {
		set["phone"] = *u.Phone
	}
	if u.ShortLocation != nil {
		set["shortLocation"] = *u.ShortLocation
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.PriceRange != nil {
		set["priceRange"] = string(*u.PriceRange)
	}
	if u.URL != nil {
		set["url"] = *u.URL
	}
	if u.Latitude != nil {
		set["latitude"] = *u.Latitude
	}
	if u.Longitude != nil {
		set["longitude"] = *u.Longitude
	}
	if u.Hashtags != nil {
		set["hashtags"] = *u.Hashtags
	}
	if u.Logo != nil {
		set["logo"] = *u.Logo
	}
	if u.Images != nil {
		set["images"] = *u.Images
	}
	if u.MenuImages != nil {
		set["menuImages"] = *u.MenuImages
	}
	return set
}

type mongoHashtagRepository struct {
	coll *mongo.Collection
}

func NewMongoHashtagRepository(db *mongo.Database) HashtagRepository {
	return &mongoHashtagRepository{coll: db.Collection(hashtagCollection)}
}

func (r *mongoHashtagRepository) Create(ctx context.Context, hashtag *models.Hashtag) error {
	if _, err := r.coll.InsertOne(ctx, hashtag); err != nil {
		return persistenceError("insert hashtag", err)
	}
	return nil
}

func (r *mongoHashtagRepository) GetByID(ctx context.Context, id string) (*models.Hashtag, error) {
	return r.findOne(ctx, "find hashtag", bson.M{"_id": id})
}

func (r *mongoHashtagRepository) GetByName(ctx context.Context, name, excludeID string) (*models.Hashtag, error) {
	filter := bson.M{"name": name}
	if excludeID != "" {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	return r.findOne(ctx, "find hashtag by name", filter)
}

func (r *mongoHashtagRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Hashtag, error) {
	if len(ids) == 0 {
		return []models.Hashtag{}, nil
	}
	return r.find(ctx, "find hashtags", bson.M{"_id": bson.M{"$in": ids}})
}

func (r *mongoHashtagRepository) Search(ctx context.Context, search string) ([]models.Hashtag, error) {
	filter := bson.M{}
	if search != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
	}
	return r.find(ctx, "search hashtags", filter)
}

func (r *mongoHashtagRepository) UpdateName(ctx context.Context, id, name string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"name": name}})
	if err != nil {
		return persistenceError("update hashtag", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoHashtagRepository) findOne(ctx context.Context, op string, filter bson.M) (*models.Hashtag, error) {
	var hashtag models.Hashtag
	if err := r.coll.FindOne(ctx, filter).Decode(&hashtag); err != nil {
		return nil, translateMongo(op, err)
	}
	return &hashtag, nil
}

func (r *mongoHashtagRepository) find(ctx context.Context, op string, filter bson.M) ([]models.Hashtag, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, persistenceError(op, err)
	}
	hashtags := []models.Hashtag{}
	if err := cursor.All(ctx, &hashtags); err != nil {
		return nil, persistenceError(op, err)
	}
	return hashtags, nil
}

func translateMongo(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return persistenceError(op, err)
}
