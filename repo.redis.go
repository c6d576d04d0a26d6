package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis hashes holding the two document collections.
const (
	HBooks string = "books"
	HUsers string = "users"
)

// GetRedisClient provides a ready to use redis client.
func GetRedisClient(config *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", config.Redis.Host, config.Redis.Port),
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
		PoolSize:     config.Redis.PoolSize,
		PoolTimeout:  config.Redis.PoolTimeout,
		Password:     config.Redis.Password,
		Username:     config.Redis.Username,
		DB:           config.Redis.DatabaseIndex,
	})

	// test connection.
	if pong, err := client.Ping(context.Background()).Result(); pong != "PONG" || err != nil {
		return client, fmt.Errorf("test connection failed: %v", err)
	}
	return client, nil
}

type redisBookStorage struct {
	logger *zap.Logger
	client *redis.Client
}

// NewRedisBookStorage provides an instance of redis-based book storage.
func NewRedisBookStorage(logger *zap.Logger, client *redis.Client) BookStorage {
	return &redisBookStorage{
		logger: logger,
		client: client,
	}
}

// Add inserts a new book record.
func (rs *redisBookStorage) Add(ctx context.Context, id string, book Book) error {
	bookBytes, err := json.Marshal(book)
	if err != nil {
		return err
	}
	return rs.client.HSet(ctx, HBooks, id, bookBytes).Err()
}

// GetOne retrieves a book record based on its ID.
func (rs *redisBookStorage) GetOne(ctx context.Context, id string) (Book, error) {
	var book Book
	bookJSONString, err := rs.client.HGet(ctx, HBooks, id).Result()
	if err == redis.Nil {
		return book, ErrBookNotFound
	}
	if err != nil {
		return book, err
	}
	err = json.Unmarshal([]byte(bookJSONString), &book)
	return book, err
}

// Delete removes a book record based on its ID.
func (rs *redisBookStorage) Delete(ctx context.Context, id string) error {
	n, err := rs.client.HDel(ctx, HBooks, id).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBookNotFound
	}
	return nil
}

// Update replaces existing book record data or inserts a new book if does not exist.
func (rs *redisBookStorage) Update(ctx context.Context, id string, book Book) (Book, error) {
	bookBytes, err := json.Marshal(book)
	if err != nil {
		return book, err
	}
	err = rs.client.HSet(ctx, HBooks, id, bookBytes).Err()
	return book, err
}

// GetAll retrieves a list of all books stored in the redis database.
func (rs *redisBookStorage) GetAll(ctx context.Context) ([]Book, error) {
	mapBooks, err := rs.client.HVals(ctx, HBooks).Result()
	if err != nil {
		return nil, err
	}
	books := []Book{}
	for _, bookJSONString := range mapBooks {
		var book Book
		if err = json.Unmarshal([]byte(bookJSONString), &book); err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, nil
}

type redisUserStorage struct {
	logger *zap.Logger
	client *redis.Client
}

// NewRedisUserStorage provides an instance of redis-based user storage.
func NewRedisUserStorage(logger *zap.Logger, client *redis.Client) UserStorage {
	return &redisUserStorage{
		logger: logger,
		client: client,
	}
}

// Add inserts a new user record.
func (rs *redisUserStorage) Add(ctx context.Context, id string, user User) error {
	userBytes, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return rs.client.HSet(ctx, HUsers, id, userBytes).Err()
}

// GetOne retrieves a user record based on its ID.
func (rs *redisUserStorage) GetOne(ctx context.Context, id string) (User, error) {
	var user User
	userJSONString, err := rs.client.HGet(ctx, HUsers, id).Result()
	if err == redis.Nil {
		return user, ErrUserNotFound
	}
	if err != nil {
		return user, err
	}
	err = json.Unmarshal([]byte(userJSONString), &user)
	return user, err
}

// Delete removes a user record based on its ID.
func (rs *redisUserStorage) Delete(ctx context.Context, id string) error {
	n, err := rs.client.HDel(ctx, HUsers, id).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Update replaces existing user record data or inserts a new user if does not exist.
func (rs *redisUserStorage) Update(ctx context.Context, id string, user User) (User, error) {
	userBytes, err := json.Marshal(user)
	if err != nil {
		return user, err
	}
	err = rs.client.HSet(ctx, HUsers, id, userBytes).Err()
	return user, err
}

// GetAll retrieves a list of all users stored in the redis database.
func (rs *redisUserStorage) GetAll(ctx context.Context) ([]User, error) {
	mapUsers, err := rs.client.HVals(ctx, HUsers).Result()
	if err != nil {
		return nil, err
	}
	users := []User{}
	for _, userJSONString := range mapUsers {
		var user User
		if err = json.Unmarshal([]byte(userJSONString), &user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}
