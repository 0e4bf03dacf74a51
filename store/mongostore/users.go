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

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	_, err := s.users.InsertOne(ctx, user)
	return translate(err)
}

func (s *Store) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *Store) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := s.users.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	res, err := s.users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
		"name":            user.Name,
		"email":           user.Email,
		"password":        user.PasswordHash,
		"role":            user.Role,
		"deliveryAddress": user.DeliveryAddress,
		"phoneNumber":     user.PhoneNumber,
		"updatedAt":       user.UpdatedAt,
	}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id string, role models.Role) error {
	res, err := s.users.DeleteOne(ctx, bson.M{"_id": id, "role": role})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	cur, err := s.users.Find(ctx, bson.M{"role": role},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, translate(err)
	}
	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, translate(err)
	}
	return users, nil
}

func (s *Store) CountUsers(ctx context.Context, role models.Role, since time.Time) (int64, error) {
	filter := bson.M{"role": role}
	if !since.IsZero() {
		filter["createdAt"] = bson.M{"$gte": since}
	}
	n, err := s.users.CountDocuments(ctx, filter)
	return n, translate(err)
}
