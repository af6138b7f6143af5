package models

// Required restaurant fields, validated before any I/O on create.
type CreateRestaurantInput struct {
	Name          string `json:"name" validate:"required"`
	Phone         string `json:"phone" validate:"required"`
	ShortLocation string `json:"shortLocation" validate:"required"`
	Description   string `json:"description" validate:"required"`
	PriceRange    string `json:"priceRange" validate:"required,oneof=$ $$ $$$"`
	URL           string `json:"url" validate:"required"`
}

// RestaurantForm is a decoded create/update request. Fields holds only the
// keys present in the request.
type RestaurantForm struct {
	Fields map[string]string
	Assets map[AssetSlot][]AssetInput
}

func (f RestaurantForm) Value(key string) (string, bool) {
	v, ok := f.Fields[key]
	return v, ok
}

type CreateHashtagRequest struct {
	ID   string `json:"_id"`
	Name string `json:"name" binding:"required,min=1,max=100"`
}

type UpdateHashtagRequest struct {
	Name *string `json:"name"`
}

type RestaurantListParams struct {
	Hashtag string `form:"hashtag"`
}

type HashtagListParams struct {
	Search string `form:"search"`
}

// AddExistingURL appends a re-submitted URL to slot, ignoring empty values.
func (f *RestaurantForm) AddExistingURL(slot AssetSlot, v string) {
	if v == "" {
		return
	}
	f.Assets[slot] = append(f.Assets[slot], ExistingURL(v))
}
