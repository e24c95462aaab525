package apis

import (
	"context"

	"club-manager-backend/cmd/club-manager/model"

	"github.com/labstack/echo/v4"
)

type IAnnouncementService interface {
	ListAnnouncements(ctx context.Context) ([]model.AnnouncementView, error)
	PostAnnouncement(ctx context.Context, actor model.Actor, req model.AnnouncementRequest) (model.Announcement, error)
	DeleteAnnouncement(ctx context.Context, actor model.Actor, id string) error
}

type AnnouncementAPI struct {
	announcements IAnnouncementService
}

func NewAnnouncementAPI(announcements IAnnouncementService) *AnnouncementAPI {

	return &AnnouncementAPI{
		announcements: announcements,
	}
}

func (a *AnnouncementAPI) Setup(g *echo.Group) {
	g.GET("/announcements", a.listAnnouncements)
	g.POST("/announcements", a.postAnnouncement)
	g.DELETE("/announcements/:id", a.deleteAnnouncement)
}

func (a *AnnouncementAPI) listAnnouncements(c echo.Context) error {

	feed, err := a.announcements.ListAnnouncements(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}

	return success(c, feed)
}

func (a *AnnouncementAPI) postAnnouncement(c echo.Context) error {

	var req model.AnnouncementRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}

	item, err := a.announcements.PostAnnouncement(c.Request().Context(), actorOf(c), req)
	if err != nil {
		return fail(c, err)
	}

	return success(c, item)
}

func (a *AnnouncementAPI) deleteAnnouncement(c echo.Context) error {

	err := a.announcements.DeleteAnnouncement(c.Request().Context(), actorOf(c), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}

	return success(c, nil)
}
