package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fadedpez/neobank/pkg/storage"
	"github.com/stretchr/testify/suite"
)

type StorageTestSuite struct {
	suite.Suite
	path    string
	storage *Storage
}

func TestStorage(t *testing.T) {
	suite.Run(t, new(StorageTestSuite))
}

func (s *StorageTestSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "neobank.db")

	storage, err := New(&storage.Options{Path: s.path})
	s.Require().NoError(err)
	s.storage = storage
}

func (s *StorageTestSuite) TearDownTest() {
	s.storage.Close()
}

func (s *StorageTestSuite) TestSetOverwrites() {
	// Setup
	ctx := context.Background()

	// Execute
	s.Require().NoError(s.storage.Set(ctx, "neobank_token", "first"))
	s.Require().NoError(s.storage.Set(ctx, "neobank_token", "second"))

	// Assert
	value, err := s.storage.Get(ctx, "neobank_token")
	s.Require().NoError(err)
	s.Equal("second", value)
}

func (s *StorageTestSuite) TestPersistsAcrossInstances() {
	// Setup
	ctx := context.Background()
	s.Require().NoError(s.storage.Set(ctx, "neobank_token", "persisted"))
	s.Require().NoError(s.storage.Close())

	// Execute
	reopened, err := New(&storage.Options{Path: s.path})
	s.Require().NoError(err)
	s.storage = reopened

	// Assert
	value, err := reopened.Get(ctx, "neobank_token")
	s.Require().NoError(err)
	s.Equal("persisted", value)
}

func (s *StorageTestSuite) TestDelete() {
	// Setup
	ctx := context.Background()
	s.Require().NoError(s.storage.Set(ctx, "neobank_token", "value"))

	// Execute
	s.Require().NoError(s.storage.Delete(ctx, "neobank_token"))
	s.Require().NoError(s.storage.Delete(ctx, "neobank_token"))

	// Assert
	_, err := s.storage.Get(ctx, "neobank_token")
	s.ErrorIs(err, storage.ErrNotFound)
}
