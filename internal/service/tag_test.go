package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doccatalog/internal/model"
	"doccatalog/internal/repository"
	repoMocks "doccatalog/internal/repository/mocks"
)

func TestTagService_AddUserTag(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves file name to document id", func(t *testing.T) {
		mDocs := new(repoMocks.MockDocumentRepository)
		mTags := new(repoMocks.MockTagRepository)
		svc := NewTagService(mDocs, mTags)

		mDocs.On("FindByName", ctx, "report.pdf").
			Return(&model.Document{ID: "doc-1", FileName: "report.pdf"}, nil)
		mTags.On("AddUserTag", ctx, "doc-1", "invoice").Return(nil)

		assert.NoError(t, svc.AddUserTag(ctx, "report.pdf", "invoice"))
		mTags.AssertExpectations(t)
	})

	t.Run("empty label is rejected before hitting the store", func(t *testing.T) {
		mTags := new(repoMocks.MockTagRepository)
		svc := NewTagService(new(repoMocks.MockDocumentRepository), mTags)

		assert.ErrorIs(t, svc.AddUserTag(ctx, "report.pdf", ""), ErrLabelRequired)
		mTags.AssertNotCalled(t, "AddUserTag")
	})

	t.Run("unknown document is ErrNotFound", func(t *testing.T) {
		mDocs := new(repoMocks.MockDocumentRepository)
		svc := NewTagService(mDocs, new(repoMocks.MockTagRepository))

		mDocs.On("FindByName", ctx, "ghost.pdf").Return(nil, repository.ErrNotFound)

		assert.ErrorIs(t, svc.AddUserTag(ctx, "ghost.pdf", "invoice"), ErrNotFound)
	})
}

func TestTagService_AddAITag(t *testing.T) {
	ctx := context.Background()

	t.Run("valid confidence is persisted", func(t *testing.T) {
		mDocs := new(repoMocks.MockDocumentRepository)
		mTags := new(repoMocks.MockTagRepository)
		svc := NewTagService(mDocs, mTags)

		mDocs.On("FindByName", ctx, "report.pdf").
			Return(&model.Document{ID: "doc-1"}, nil)
		mTags.On("AddAITag", ctx, "doc-1", "biology", 0.87).Return(nil)

		assert.NoError(t, svc.AddAITag(ctx, "report.pdf", "biology", 0.87))
		mTags.AssertExpectations(t)
	})

	t.Run("confidence above one is rejected not clamped", func(t *testing.T) {
		mTags := new(repoMocks.MockTagRepository)
		svc := NewTagService(new(repoMocks.MockDocumentRepository), mTags)

		err := svc.AddAITag(ctx, "report.pdf", "biology", 1.3)

		assert.ErrorIs(t, err, ErrConfidenceOutOfRange)
		mTags.AssertNotCalled(t, "AddAITag")
	})

	t.Run("negative confidence is rejected", func(t *testing.T) {
		svc := NewTagService(new(repoMocks.MockDocumentRepository), new(repoMocks.MockTagRepository))

		assert.ErrorIs(t, svc.AddAITag(ctx, "report.pdf", "biology", -0.1), ErrConfidenceOutOfRange)
	})
}

func TestTagService_TagsFor(t *testing.T) {
	ctx := context.Background()

	mDocs := new(repoMocks.MockDocumentRepository)
	mTags := new(repoMocks.MockTagRepository)
	svc := NewTagService(mDocs, mTags)

	mDocs.On("FindByName", ctx, "report.pdf").
		Return(&model.Document{ID: "doc-1"}, nil)
	mTags.On("TagsFor", ctx, "doc-1").Return(&model.TagSet{
		UserTags: []model.UserTag{{DocumentID: "doc-1", Label: "invoice"}},
		AITags:   []model.AITag{{DocumentID: "doc-1", Label: "biology", Confidence: 0.87}},
	}, nil)

	set, err := svc.TagsFor(ctx, "report.pdf")

	require.NoError(t, err)
	require.Len(t, set.UserTags, 1)
	require.Len(t, set.AITags, 1)
	assert.Equal(t, "biology", set.AITags[0].Label)
}
