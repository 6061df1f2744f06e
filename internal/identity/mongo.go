package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const usersCollection = "users"

const mongoTimeout = 10 * time.Second

// MongoUsers stores accounts in the same document database as the tracker
// documents. Emails are unique by index.
type MongoUsers struct {
	col     *mongo.Collection
	timeout time.Duration
}

var _ UserStore = (*MongoUsers)(nil)

// NewMongoUsers wraps the users collection of an existing database handle
// and ensures the unique email index.
func NewMongoUsers(ctx context.Context, db *mongo.Database) (*MongoUsers, error) {
	col := db.Collection(usersCollection)

	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()
	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("create email index: %w", err)
	}
	return &MongoUsers{col: col, timeout: mongoTimeout}, nil
}

func (s *MongoUsers) Create(ctx context.Context, user *User) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.col.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("insert user %s: %w", user.Email, err)
	}
	return nil
}

func (s *MongoUsers) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoUsers) FindByID(ctx context.Context, id string) (*User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoUsers) findOne(ctx context.Context, filter bson.M) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var user User
	err := s.col.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUnknownUser
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (s *MongoUsers) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"password_hash": passwordHash}})
	if err != nil {
		return fmt.Errorf("update password for %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrUnknownUser
	}
	return nil
}
