package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"doccatalog/internal/model"
	"doccatalog/internal/service"
	"doccatalog/internal/storage"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Ingest(ctx context.Context, files []service.UploadFile) []service.FileOutcome {
	args := m.Called(ctx, files)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]service.FileOutcome)
}

func (m *MockDocumentService) List(ctx context.Context) ([]model.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, fileName string) (*model.Document, error) {
	args := m.Called(ctx, fileName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Download(ctx context.Context, fileName string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, fileName)
	if args.Get(0) == nil {
		return nil, args.Get(1).(storage.ObjectInfo), args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(storage.ObjectInfo), args.Error(2)
}

func (m *MockDocumentService) Delete(ctx context.Context, fileName string) error {
	args := m.Called(ctx, fileName)
	return args.Error(0)
}
