package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/optatrack/account-service/internal/core/domain"
	"github.com/optatrack/account-service/internal/core/ports"
)

const (
	userCollection = "users"
	roleCollection = "roles"
)

// UserRepository is the MongoDB credential store. It owns password hashing:
// plaintext passwords enter through Create/UpdatePassword/CheckPassword and
// only bcrypt hashes touch the collection.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(userCollection)}
}

// EnsureIndexes creates the unique email index backing username lookups and
// the all-or-nothing duplicate check on Create.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

// EnsureRoles upserts the reference roles so they exist before the first
// account is created. Re-running is a no-op.
func (r *UserRepository) EnsureRoles(ctx context.Context) error {
	coll := r.coll.Database().Collection(roleCollection)
	opts := options.Update().SetUpsert(true)
	for _, name := range domain.ReferenceRoles() {
		_, err := coll.UpdateOne(ctx,
			bson.M{"_id": name},
			bson.M{"$setOnInsert": bson.M{"name": name}},
			opts)
		if err != nil {
			return fmt.Errorf("ensure role %s: %w", name, err)
		}
	}
	return nil
}

type mongoUser struct {
	ID           string   `bson:"_id"`
	Email        string   `bson:"email"`
	FirstName    string   `bson:"first_name,omitempty"`
	LastName     string   `bson:"last_name,omitempty"`
	Phone        string   `bson:"phone,omitempty"`
	PasswordHash string   `bson:"password_hash"`
	Roles        []string `bson:"roles"`
	CreatedAt    int64    `bson:"created_at"`
	UpdatedAt    int64    `bson:"updated_at"`
}

func (r *UserRepository) CheckPassword(ctx context.Context, username, password string) (bool, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"email": username}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return false, nil
		}
		return false, fmt.Errorf("find user: %w", err)
	}
	return bcrypt.CompareHashAndPassword([]byte(mu.PasswordHash), []byte(password)) == nil, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"email": username}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User, password string) (*domain.User, error) {
	if user == nil {
		return nil, domain.ErrNilUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	doc := mongoUser{
		ID:           uuid.NewString(),
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Phone:        user.Phone,
		PasswordHash: string(hash),
		Roles:        roleNames(user.Roles),
		CreatedAt:    now.Unix(),
		UpdatedAt:    now.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) Update(ctx context.Context, input ports.UpdateUserInput) (*domain.User, error) {
	update := bson.M{"$set": bson.M{
		"first_name": input.FirstName,
		"last_name":  input.LastName,
		"email":      input.Email,
		"phone":      input.Phone,
		"updated_at": time.Now().UTC().Unix(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mu mongoUser
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": input.UserID}, update, opts).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, input ports.UpdatePasswordInput) (bool, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": input.UserID}, bson.M{"$set": bson.M{
		"password_hash": string(hash),
		"updated_at":    time.Now().UTC().Unix(),
	}})
	if err != nil {
		return false, fmt.Errorf("update password: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func (mu mongoUser) toDomain() *domain.User {
	roles := make([]domain.Role, 0, len(mu.Roles))
	for _, name := range mu.Roles {
		roles = append(roles, domain.Role{Name: name})
	}
	return &domain.User{
		ID:           mu.ID,
		Email:        mu.Email,
		FirstName:    mu.FirstName,
		LastName:     mu.LastName,
		Phone:        mu.Phone,
		PasswordHash: mu.PasswordHash,
		Roles:        roles,
		CreatedAt:    unixToTime(mu.CreatedAt),
		UpdatedAt:    unixToTime(mu.UpdatedAt),
	}
}

func roleNames(roles []domain.Role) []string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	return names
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
