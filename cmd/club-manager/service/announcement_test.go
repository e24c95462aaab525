package service

import (
	"context"
	"testing"
	"time"

	"club-manager-backend/cmd/club-manager/model"
	"club-manager-backend/cmd/club-manager/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAnnouncementService_PostListDelete(t *testing.T) {
	clock := testNow
	repo := repository.NewAnnouncementRepo(repository.NewMemoryStore())
	s := NewAnnouncementService(repo, zap.NewNop(), WithClock(func() time.Time { return clock }))
	ctx := context.Background()

	first, err := s.PostAnnouncement(ctx, admin, model.AnnouncementRequest{Title: "Welcome", Content: "Hello **club**"})
	require.NoError(t, err)
	assert.Equal(t, admin.ID, first.Author)

	clock = clock.Add(time.Hour)
	second, err := s.PostAnnouncement(ctx, admin, model.AnnouncementRequest{Title: "Schedule", Content: "line one\nline two"})
	require.NoError(t, err)

	feed, err := s.ListAnnouncements(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, second.ID, feed[0].ID, "newest first")
	assert.Contains(t, feed[0].ContentHTML, "line one<br>")
	assert.Contains(t, feed[1].ContentHTML, "<strong>club</strong>")

	require.NoError(t, s.DeleteAnnouncement(ctx, admin, first.ID))
	assert.ErrorIs(t, s.DeleteAnnouncement(ctx, admin, first.ID), ErrNotFound)

	feed, err = s.ListAnnouncements(ctx)
	require.NoError(t, err)
	assert.Len(t, feed, 1)
}

func TestAnnouncementService_RawHTMLIsNotRendered(t *testing.T) {
	repo := repository.NewAnnouncementRepo(repository.NewMemoryStore())
	s := NewAnnouncementService(repo, zap.NewNop(), WithClock(fixedClock))
	ctx := context.Background()

	_, err := s.PostAnnouncement(ctx, admin, model.AnnouncementRequest{
		Title:   "Sneaky",
		Content: "<script>alert(1)</script>",
	})
	require.NoError(t, err)

	feed, err := s.ListAnnouncements(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.NotContains(t, feed[0].ContentHTML, "<script>")
	assert.Equal(t, "<script>alert(1)</script>", feed[0].Content)
}

func TestAnnouncementService_Permissions(t *testing.T) {
	repo := repository.NewAnnouncementRepo(repository.NewMemoryStore())
	s := NewAnnouncementService(repo, zap.NewNop())
	ctx := context.Background()

	_, err := s.PostAnnouncement(ctx, clubHead, model.AnnouncementRequest{Title: "x", Content: "y"})
	assert.ErrorIs(t, err, ErrForbidden)

	assert.ErrorIs(t, s.DeleteAnnouncement(ctx, student, "1"), ErrForbidden)

	_, err = s.PostAnnouncement(ctx, admin, model.AnnouncementRequest{Title: " ", Content: "y"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	feed, err := s.ListAnnouncements(ctx)
	assert.NoError(t, err)
	assert.Empty(t, feed)
}
