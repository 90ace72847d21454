package mock

import (
	"context"

	"github.com/fadedpez/neobank/pkg/storage"
	"github.com/stretchr/testify/mock"
)

// Storage is a mock implementation of storage.Storage
type Storage struct {
	mock.Mock
}

func New() *Storage {
	return &Storage{}
}

func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	args := s.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	args := s.Called(ctx, key, value)
	return args.Error(0)
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	args := s.Called(ctx, key)
	return args.Error(0)
}

func (s *Storage) Close() error {
	args := s.Called()
	return args.Error(0)
}

var _ storage.Storage = (*Storage)(nil)
