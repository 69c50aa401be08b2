package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spec-kit/qa-admin-service/internal/domain"
	"github.com/spec-kit/qa-admin-service/internal/persistence"
	apperrors "github.com/spec-kit/qa-admin-service/pkg/util"
)

// UserCollection is the name of the user collection.
const UserCollection = "users"

// UpdateResult carries the match/modify counts of a partial update.
type UpdateResult struct {
	Matched  int64
	Modified int64
}

// UserRepository defines persistence access for user records.
type UserRepository interface {
	Insert(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Count(ctx context.Context) (int64, error)
	UserNameExists(ctx context.Context, userName string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	ApplyUpdate(ctx context.Context, id primitive.ObjectID, fields bson.M) (UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

type userRepository struct {
	store *persistence.Mongo
}

// NewUserRepository returns a Mongo-backed implementation.
func NewUserRepository(store *persistence.Mongo) UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) collection() (*mongo.Collection, error) {
	coll, err := r.store.Collection(UserCollection)
	if err != nil {
		return nil, apperrors.NewUnavailable("Database connection unavailable", err)
	}
	return coll, nil
}

func (r *userRepository) Insert(ctx context.Context, user *domain.User) error {
	coll, err := r.collection()
	if err != nil {
		return err
	}
	res, err := coll.InsertOne(ctx, user)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}
	var user domain.User
	if err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}
	cursor, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []domain.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	coll, err := r.collection()
	if err != nil {
		return 0, err
	}
	return coll.CountDocuments(ctx, bson.D{})
}

func (r *userRepository) UserNameExists(ctx context.Context, userName string) (bool, error) {
	return r.exists(ctx, bson.M{"userName": userName})
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, bson.M{"email": email})
}

func (r *userRepository) exists(ctx context.Context, filter bson.M) (bool, error) {
	coll, err := r.collection()
	if err != nil {
		return false, err
	}
	err = coll.FindOne(ctx, filter).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *userRepository) ApplyUpdate(ctx context.Context, id primitive.ObjectID, fields bson.M) (UpdateResult, error) {
	coll, err := r.collection()
	if err != nil {
		return UpdateResult{}, err
	}
	res, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return UpdateResult{}, err
	}
	return UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

func (r *userRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	coll, err := r.collection()
	if err != nil {
		return 0, err
	}
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
