package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"doccatalog/internal/model"
)

type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) AddUserTag(ctx context.Context, documentID, label string) error {
	args := m.Called(ctx, documentID, label)
	return args.Error(0)
}

func (m *MockTagRepository) AddAITag(ctx context.Context, documentID, label string, confidence float64) error {
	args := m.Called(ctx, documentID, label, confidence)
	return args.Error(0)
}

func (m *MockTagRepository) TagsFor(ctx context.Context, documentID string) (*model.TagSet, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TagSet), args.Error(1)
}
