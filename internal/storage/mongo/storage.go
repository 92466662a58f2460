package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"account_service/internal/models"
	"account_service/internal/storage"
)

const (
	accountsCollection = "accounts"

	connectTimeout = 5 * time.Second
)

type accountDocument struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
}

func toDocument(a models.Account) accountDocument {
	return accountDocument{
		ID:           a.ID.String(),
		Username:     a.Username,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		CreatedAt:    a.CreatedAt.UTC(),
	}
}

func (d accountDocument) toModel() (models.Account, error) {
	id, err := uuid.FromString(d.ID)
	if err != nil {
		return models.Account{}, err
	}

	return models.Account{
		ID:           id,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
	}, nil
}

type Storage struct {
	client   *mongo.Client
	accounts *mongo.Collection
}

var _ storage.Storage = (*Storage)(nil)

// New connects to uri and ensures the unique email index on the accounts collection.
func New(ctx context.Context, uri, database string) (*Storage, error) {
	const op = "storage.mongo.New"

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	accounts := client.Database(database).Collection(accountsCollection)

	_, err = accounts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		client:   client,
		accounts: accounts,
	}, nil
}

func (s *Storage) CreateAccount(ctx context.Context, account models.Account) error {
	const op = "storage.mongo.CreateAccount"

	if _, err := s.accounts.InsertOne(ctx, toDocument(account)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrAccountExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (models.Account, error) {
	const op = "storage.mongo.GetAccountByEmail"

	var doc accountDocument
	err := s.accounts.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Account{}, fmt.Errorf("%s: %w", op, storage.ErrAccountNotFound)
		}
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}

	account, err := doc.toModel()
	if err != nil {
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}

	return account, nil
}

func (s *Storage) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	return s.client.Disconnect(ctx)
}
