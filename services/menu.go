package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"food-ordering-api/cache"
	"food-ordering-api/logger"
	"food-ordering-api/models"
	"food-ordering-api/store"

	"github.com/google/uuid"
)

type MenuItemInput struct {
	Name        string
	Description string
	Price       float64
	Category    models.Category
	Image       string
	IsAvailable *bool // nil means available
}

// MenuItemPatch holds the fields of a partial update; nil fields are left alone
type MenuItemPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *models.Category
	Image       *string
	IsAvailable *bool
}

func (p MenuItemPatch) empty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil &&
		p.Category == nil && p.Image == nil && p.IsAvailable == nil
}

// DeleteManyResult reports the outcome of a bulk delete
type DeleteManyResult struct {
	Message        string   `json:"message"`
	DeletedCount   int64    `json:"deletedCount"`
	TotalRequested int      `json:"totalRequested"`
	InvalidIDs     []string `json:"invalidIds,omitempty"`
}

type MenuService struct {
	store store.MenuStore
	cache *cache.MenuCache
	log   *slog.Logger
}

func NewMenuService(s store.MenuStore, c *cache.MenuCache, log *slog.Logger) *MenuService {
	if c == nil {
		c = cache.NewMenuCache(cache.DefaultTTL)
	}
	return &MenuService{store: s, cache: c, log: logger.WithComponent(log, "menu")}
}

// List serves the catalog from cache and filters in memory
func (s *MenuService) List(ctx context.Context, filter store.MenuFilter) ([]models.MenuItem, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, validationError("Invalid category: %s", filter.Category)
	}

	items, gen, ok := s.cache.Get()
	if !ok {
		var err error
		items, err = s.store.ListMenuItems(ctx, store.MenuFilter{})
		if err != nil {
			return nil, internalError("list menu", err)
		}
		if !s.cache.Set(items, gen) {
			s.log.DebugContext(ctx, "menu changed during refill, not caching")
		}
	}

	out := make([]models.MenuItem, 0, len(items))
	for _, item := range items {
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		if filter.AvailableOnly && !item.IsAvailable {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *MenuService) Get(ctx context.Context, id string) (*models.MenuItem, error) {
	item, err := s.store.FindMenuItem(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound(err, "Menu item not found")
	}
	if err != nil {
		return nil, internalError("find menu item", err)
	}
	return item, nil
}

func (s *MenuService) Create(ctx context.Context, in MenuItemInput) (*models.MenuItem, error) {
	item := &models.MenuItem{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Category:    in.Category,
		Image:       strings.TrimSpace(in.Image),
		IsAvailable: true,
	}
	if item.Category == "" {
		item.Category = models.CategoryMainCourse
	}
	if in.IsAvailable != nil {
		item.IsAvailable = *in.IsAvailable
	}
	if err := validateMenuItem(item); err != nil {
		return nil, err
	}

	if err := s.store.CreateMenuItems(ctx, item); err != nil {
		return nil, internalError("create menu item", err)
	}
	s.cache.Invalidate()
	s.log.InfoContext(ctx, "menu item created", "menu_item_id", item.ID)
	return item, nil
}

// Update applies a partial patch
func (s *MenuService) Update(ctx context.Context, id string, patch MenuItemPatch) (*models.MenuItem, error) {
	if patch.empty() {
		return nil, validationError("No update data provided")
	}
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		item.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		item.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Price != nil {
		item.Price = *patch.Price
	}
	if patch.Category != nil {
		item.Category = *patch.Category
	}
	if patch.Image != nil {
		item.Image = strings.TrimSpace(*patch.Image)
	}
	if patch.IsAvailable != nil {
		item.IsAvailable = *patch.IsAvailable
	}
	if err := validateMenuItem(item); err != nil {
		return nil, err
	}

	if err := s.store.UpdateMenuItem(ctx, item); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound(err, "Menu item not found")
		}
		return nil, internalError("update menu item", err)
	}
	s.cache.Invalidate()
	return item, nil
}

func (s *MenuService) Delete(ctx context.Context, id string) error {
	n, err := s.store.DeleteMenuItems(ctx, id)
	if err != nil {
		return internalError("delete menu item", err)
	}
	if n == 0 {
		return notFound(store.ErrNotFound, "Menu item not found")
	}
	s.cache.Invalidate()
	return nil
}

// DeleteMany removes every well-formed id and reports malformed ones
func (s *MenuService) DeleteMany(ctx context.Context, ids []string) (*DeleteManyResult, error) {
	if len(ids) == 0 {
		return nil, validationError("Valid array of item IDs is required")
	}

	var valid, invalid []string
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			invalid = append(invalid, id)
			continue
		}
		valid = append(valid, id)
	}
	if len(valid) == 0 {
		e := validationError("No valid IDs provided")
		e.Extra = map[string]any{"invalidIds": invalid}
		return nil, e
	}

	n, err := s.store.DeleteMenuItems(ctx, valid...)
	if err != nil {
		return nil, internalError("delete menu items", err)
	}
	if n == 0 {
		return nil, notFound(store.ErrNotFound, "No menu items found with the provided IDs")
	}
	s.cache.Invalidate()

	return &DeleteManyResult{
		Message:        fmt.Sprintf("Successfully deleted %d menu items", n),
		DeletedCount:   n,
		TotalRequested: len(ids),
		InvalidIDs:     invalid,
	}, nil
}

func validateMenuItem(item *models.MenuItem) error {
	switch {
	case item.Name == "":
		return validationError("Name is required")
	case item.Description == "":
		return validationError("Description is required")
	case item.Price < 0:
		return validationError("Price cannot be negative")
	case !item.Category.Valid():
		return validationError("Invalid category: %s", item.Category)
	}
	return nil
}
