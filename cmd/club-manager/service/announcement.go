package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"club-manager-backend/cmd/club-manager/model"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"
)

// Raw HTML in the source is dropped (goldmark's default); hard wraps keep
// the line breaks authors type.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

type AnnouncementService struct {
	announcements Collection[model.Announcement]
	logger        *zap.Logger
	opts          options
}

func NewAnnouncementService(announcements Collection[model.Announcement], logger *zap.Logger, opts ...Option) *AnnouncementService {
	return &AnnouncementService{
		announcements: announcements,
		logger:        logger,
		opts:          newOptions(opts),
	}
}

// ListAnnouncements returns the feed newest first.
func (s *AnnouncementService) ListAnnouncements(ctx context.Context) ([]model.AnnouncementView, error) {

	items, err := load(ctx, s.announcements)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date)
	})

	views := make([]model.AnnouncementView, 0, len(items))
	for _, a := range items {
		var buf bytes.Buffer
		if err := mdRenderer.Convert([]byte(a.Content), &buf); err != nil {
			return nil, fmt.Errorf("render announcement %s: %w", a.ID, err)
		}
		views = append(views, model.AnnouncementView{
			Announcement: a,
			ContentHTML:  buf.String(),
		})
	}

	return views, nil
}

func (s *AnnouncementService) PostAnnouncement(ctx context.Context, actor model.Actor, req model.AnnouncementRequest) (model.Announcement, error) {

	if !actor.IsAdmin() {
		return model.Announcement{}, ErrForbidden
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return model.Announcement{}, fmt.Errorf("%w: title and content are required", ErrInvalidInput)
	}

	id, err := newID()
	if err != nil {
		return model.Announcement{}, err
	}

	item := model.Announcement{
		ID:      id,
		Title:   strings.TrimSpace(req.Title),
		Content: req.Content,
		Date:    s.opts.now().UTC(),
		Author:  actor.ID,
	}

	err = update(ctx, s.announcements, s.opts.writeRetries, func(items []model.Announcement) ([]model.Announcement, error) {
		return append(items, item), nil
	})
	if err != nil {
		return model.Announcement{}, err
	}

	s.logger.Info("announcement posted", zap.String("announcement_id", item.ID))

	return item, nil
}

func (s *AnnouncementService) DeleteAnnouncement(ctx context.Context, actor model.Actor, id string) error {

	if !actor.IsAdmin() {
		return ErrForbidden
	}

	err := update(ctx, s.announcements, s.opts.writeRetries, func(items []model.Announcement) ([]model.Announcement, error) {
		for i := range items {
			if items[i].ID == id {
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("announcement %s: %w", id, ErrNotFound)
	})
	if err != nil {
		return err
	}

	s.logger.Info("announcement deleted", zap.String("announcement_id", id))

	return nil
}
