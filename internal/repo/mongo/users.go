package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/Vaibhav-crux/users-assignment/internal/domain/user"
	"github.com/Vaibhav-crux/users-assignment/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UsersRepo struct {
	coll *mongo.Collection
	prom *observability.Prom
}

// constructor function; prom may be nil (metrics become a no-op).

func NewUsersRepo(database *mongo.Database, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{
		coll: database.Collection("users"),
		prom: prom,
	}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom == nil {
		return fn()
	}

	return r.prom.ObserveDB(op, fn)
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	out := make([]user.User, 0)

	err := r.observe("users.list", func() error {
		cursor, err := r.coll.Find(ctx, bson.M{})

		if err != nil {
			return err
		}

		return cursor.All(ctx, &out)
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_id", func() error {
		return r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	})

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_email", func() error {
		return r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	})

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	err := r.observe("users.create", func() error {
		_, err := r.coll.InsertOne(ctx, u)

		return err
	})

	if err != nil {
		// unique index on email; a lost race surfaces here
		if mongo.IsDuplicateKeyError(err) {
			return user.User{}, user.ErrEmailExists
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) UpdateFields(ctx context.Context, id string, req user.UpdateUserRequest) (user.User, error) {
	set := bson.M{"updated_at": time.Now().UTC()}

	if req.Name != nil && *req.Name != "" {
		set["name"] = *req.Name
	}

	if req.Email != nil && *req.Email != "" {
		set["email"] = *req.Email
	}

	var u user.User

	err := r.observe("users.update_fields", func() error {
		return r.coll.FindOneAndUpdate(
			ctx,
			bson.M{"_id": id},
			bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&u)
	})

	if err != nil {
		// if there is no document matching the id
		if errors.Is(err, mongo.ErrNoDocuments) {
			return user.User{}, user.ErrNotFound
		}

		if mongo.IsDuplicateKeyError(err) {
			return user.User{}, user.ErrEmailInUse
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) Delete(ctx context.Context, id string) error {
	var deleted int64

	err := r.observe("users.delete", func() error {
		res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})

		if err != nil {
			return err
		}

		deleted = res.DeletedCount
		return nil
	})

	if err != nil {
		return err
	}

	// if nothing was deleted as a result return a not found error
	if deleted == 0 {
		return user.ErrNotFound
	}

	return nil
}
