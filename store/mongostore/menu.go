package mongostore

import (
	"context"
	"time"

	"food-ordering-api/models"
	"food-ordering-api/store"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) CreateMenuItems(ctx context.Context, items ...*models.MenuItem) error {
	if len(items) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, len(items))
	for i, item := range items {
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		item.CreatedAt, item.UpdatedAt = now, now
		docs[i] = item
	}
	_, err := s.menu.InsertMany(ctx, docs)
	return translate(err)
}

func (s *Store) FindMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.menu.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (s *Store) ListMenuItems(ctx context.Context, filter store.MenuFilter) ([]models.MenuItem, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.AvailableOnly {
		query["isAvailable"] = true
	}
	return s.findMenuItems(ctx, query)
}

func (s *Store) findMenuItems(ctx context.Context, query bson.M) ([]models.MenuItem, error) {
	cur, err := s.menu.Find(ctx, query,
		options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}}))
	if err != nil {
		return nil, translate(err)
	}
	items := []models.MenuItem{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, translate(err)
	}
	return items, nil
}

func (s *Store) UpdateMenuItem(ctx context.Context, item *models.MenuItem) error {
	item.UpdatedAt = time.Now().UTC()
	res, err := s.menu.UpdateOne(ctx, bson.M{"_id": item.ID}, bson.M{"$set": bson.M{
		"name":        item.Name,
		"description": item.Description,
		"price":       item.Price,
		"category":    item.Category,
		"image":       item.Image,
		"isAvailable": item.IsAvailable,
		"updatedAt":   item.UpdatedAt,
	}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteMenuItems(ctx context.Context, ids ...string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.menu.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, translate(err)
	}
	return res.DeletedCount, nil
}

func (s *Store) DeleteAllMenuItems(ctx context.Context) (int64, error) {
	res, err := s.menu.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, translate(err)
	}
	return res.DeletedCount, nil
}
