package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"doccatalog/internal/model"
)

type MockTagService struct {
	mock.Mock
}

func (m *MockTagService) AddUserTag(ctx context.Context, fileName, label string) error {
	args := m.Called(ctx, fileName, label)
	return args.Error(0)
}

func (m *MockTagService) AddAITag(ctx context.Context, fileName, label string, confidence float64) error {
	args := m.Called(ctx, fileName, label, confidence)
	return args.Error(0)
}

func (m *MockTagService) TagsFor(ctx context.Context, fileName string) (*model.TagSet, error) {
	args := m.Called(ctx, fileName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TagSet), args.Error(1)
}
