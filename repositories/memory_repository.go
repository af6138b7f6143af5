package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"

	"restaurant-directory/models"
)

// MemoryStore keeps restaurants and hashtags in process memory. Records are
// copied in and out so callers never share state with the store.
type MemoryStore struct {
	mu          sync.RWMutex
	restaurants map[string]models.Restaurant
	hashtags    map[string]models.Hashtag
	order       []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		restaurants: make(map[string]models.Restaurant),
		hashtags:    make(map[string]models.Hashtag),
	}
}

func (m *MemoryStore) Restaurants() RestaurantRepository {
	return memoryRestaurantRepository{m}
}

func (m *MemoryStore) Hashtags() HashtagRepository {
	return memoryHashtagRepository{m}
}

type memoryRestaurantRepository struct {
	*MemoryStore
}

func cloneRestaurant(r models.Restaurant) models.Restaurant {
	r.Hashtags = append([]string{}, r.Hashtags...)
	r.Images = append([]string{}, r.Images...)
	r.MenuImages = append([]string{}, r.MenuImages...)
	if r.Logo != nil {
		logo := *r.Logo
		r.Logo = &logo
	}
	return r
}

func (m memoryRestaurantRepository) Create(ctx context.Context, restaurant *models.Restaurant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.restaurants[restaurant.ID]; exists {
		return persistenceError("create restaurant", errDuplicateKey)
	}
	restaurant.Normalize()
	m.restaurants[restaurant.ID] = cloneRestaurant(*restaurant)
	m.order = append(m.order, restaurant.ID)
	return nil
}

func (m memoryRestaurantRepository) GetByID(ctx context.Context, id string) (*models.Restaurant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.restaurants[id]
	if !ok {
		return nil, ErrNotFound
	}
	r = cloneRestaurant(r)
	return &r, nil
}

func (m memoryRestaurantRepository) List(ctx context.Context, hashtagID string) ([]models.Restaurant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Restaurant{}
	for _, id := range m.order {
		r := m.restaurants[id]
		if hashtagID != "" && !contains(r.Hashtags, hashtagID) {
			continue
		}
		out = append(out, cloneRestaurant(r))
	}
	return out, nil
}

func (m memoryRestaurantRepository) Update(ctx context.Context, id string, update models.RestaurantUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.restaurants[id]
	if !ok {
		return ErrNotFound
	}
	update.Apply(&r)
	m.restaurants[id] = cloneRestaurant(r)
	return nil
}

type memoryHashtagRepository struct {
	*MemoryStore
}

func (m memoryHashtagRepository) Create(ctx context.Context, hashtag *models.Hashtag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.hashtags[hashtag.ID]; exists {
		return persistenceError("create hashtag", errDuplicateKey)
	}
	m.hashtags[hashtag.ID] = *hashtag
	return nil
}

func (m memoryHashtagRepository) GetByID(ctx context.Context, id string) (*models.Hashtag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.hashtags[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &h, nil
}

func (m memoryHashtagRepository) GetByName(ctx context.Context, name, excludeID string) (*models.Hashtag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, h := range m.sortedHashtags() {
		if h.Name == name && (excludeID == "" || h.ID != excludeID) {
			return &h, nil
		}
	}
	return nil, ErrNotFound
}

func (m memoryHashtagRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Hashtag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Hashtag{}
	for _, h := range m.sortedHashtags() {
		if contains(ids, h.ID) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m memoryHashtagRepository) Search(ctx context.Context, search string) ([]models.Hashtag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	needle := strings.ToLower(search)
	out := []models.Hashtag{}
	for _, h := range m.sortedHashtags() {
		if strings.Contains(strings.ToLower(h.Name), needle) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m memoryHashtagRepository) UpdateName(ctx context.Context, id, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hashtags[id]
	if !ok {
		return ErrNotFound
	}
	h.Name = name
	m.hashtags[id] = h
	return nil
}

// sortedHashtags must be called with mu held.
func (m *MemoryStore) sortedHashtags() []models.Hashtag {
	out := make([]models.Hashtag, 0, len(m.hashtags))
	for _, h := range m.hashtags {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
