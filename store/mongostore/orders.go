package mongostore

import (
	"context"
	"time"

	"food-ordering-api/models"
	"food-ordering-api/store"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = order.CreatedAt
	}
	for i := range order.StatusHistory {
		if order.StatusHistory[i].CreatedAt.IsZero() {
			order.StatusHistory[i].CreatedAt = now
		}
	}
	_, err := s.orders.InsertOne(ctx, order)
	return translate(err)
}

func (s *Store) FindOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := s.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		return nil, translate(err)
	}
	orders := []models.Order{order}
	if err := s.populateMenuItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (s *Store) ListOrders(ctx context.Context, filter store.OrderFilter) ([]models.Order, error) {
	query := bson.M{}
	if filter.UserID != "" {
		query["user"] = filter.UserID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	cur, err := s.orders.Find(ctx, query,
		options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetProjection(bson.M{"statusHistory": 0}))
	if err != nil {
		return nil, translate(err)
	}
	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, translate(err)
	}
	if err := s.populateMenuItems(ctx, orders); err != nil {
		return nil, err
	}
	if filter.PopulateOwner {
		if err := s.populateOwners(ctx, orders); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// populateMenuItems resolves line-item references with one $in query
func (s *Store) populateMenuItems(ctx context.Context, orders []models.Order) error {
	seen := map[string]bool{}
	ids := []string{}
	for _, o := range orders {
		for _, it := range o.Items {
			if !seen[it.MenuItemID] {
				seen[it.MenuItemID] = true
				ids = append(ids, it.MenuItemID)
			}
		}
	}
	if len(ids) == 0 {
		return nil
	}
	items, err := s.findMenuItems(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return err
	}
	byID := make(map[string]*models.MenuItem, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}
	for i := range orders {
		for j := range orders[i].Items {
			orders[i].Items[j].MenuItem = byID[orders[i].Items[j].MenuItemID]
		}
	}
	return nil
}

func (s *Store) populateOwners(ctx context.Context, orders []models.Order) error {
	ids := []string{}
	seen := map[string]bool{}
	for _, o := range orders {
		if !seen[o.UserID] {
			seen[o.UserID] = true
			ids = append(ids, o.UserID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	cur, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"name": 1, "email": 1}))
	if err != nil {
		return translate(err)
	}
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return translate(err)
	}
	byID := make(map[string]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	for i := range orders {
		orders[i].User = byID[orders[i].UserID]
	}
	return nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, entry models.OrderStatusHistory) error {
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	// A single-document update is atomic, so status and history stay in step.
	res, err := s.orders.UpdateOne(ctx, bson.M{"_id": id, "status": entry.FromStatus}, bson.M{
		"$set":  bson.M{"status": entry.ToStatus, "updatedAt": now},
		"$push": bson.M{"statusHistory": entry},
	})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	n, err := s.orders.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return store.ErrStaleStatus
}

func (s *Store) CountOrdersByUser(ctx context.Context, userIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(userIDs))
	if len(userIDs) == 0 {
		return counts, nil
	}
	cur, err := s.orders.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user": bson.M{"$in": userIDs}}}},
		{{Key: "$group", Value: bson.M{"_id": "$user", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, translate(err)
	}
	var rows []struct {
		UserID string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, translate(err)
	}
	for _, r := range rows {
		counts[r.UserID] = r.Count
	}
	return counts, nil
}

func (s *Store) TopCustomers(ctx context.Context, limit int) ([]store.CustomerSpend, error) {
	cur, err := s.orders.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":        "$user",
			"orderCount": bson.M{"$sum": 1},
			"totalSpent": bson.M{"$sum": "$totalAmount"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "orderCount", Value: -1}, {Key: "totalSpent", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$lookup", Value: bson.M{
			"from":         usersCollection,
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "userInfo",
		}}},
		{{Key: "$unwind", Value: "$userInfo"}},
		{{Key: "$project", Value: bson.M{
			"_id":        1,
			"orderCount": 1,
			"totalSpent": 1,
			"name":       "$userInfo.name",
			"email":      "$userInfo.email",
		}}},
	})
	if err != nil {
		return nil, translate(err)
	}
	var rows []struct {
		UserID     string  `bson:"_id"`
		Name       string  `bson:"name"`
		Email      string  `bson:"email"`
		OrderCount int64   `bson:"orderCount"`
		TotalSpent float64 `bson:"totalSpent"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, translate(err)
	}
	out := make([]store.CustomerSpend, len(rows))
	for i, r := range rows {
		out[i] = store.CustomerSpend(r)
	}
	return out, nil
}
