package apis

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"club-manager-backend/cmd/club-manager/model"

	"github.com/labstack/echo/v4"
)

type IMemberService interface {
	ListMembers(ctx context.Context, actor model.Actor, query string) ([]model.Member, error)
	SaveMember(ctx context.Context, actor model.Actor, id string, req model.MemberRequest) (model.Member, error)
	DeleteMember(ctx context.Context, actor model.Actor, id string) error
	ImportMembers(ctx context.Context, actor model.Actor, r io.Reader) (int, error)
	ExportMembers(ctx context.Context, actor model.Actor, w io.Writer) error
}

type MemberAPI struct {
	members IMemberService
}

func NewMemberAPI(members IMemberService) *MemberAPI {

	return &MemberAPI{
		members: members,
	}
}

func (a *MemberAPI) Setup(g *echo.Group) {
	g.GET("/members", a.listMembers)
	g.POST("/members", a.createMember)
	g.PUT("/members/:id", a.updateMember)
	g.DELETE("/members/:id", a.deleteMember)
	g.POST("/members/import", a.importMembers)
	g.GET("/members/export", a.exportMembers)
}

func (a *MemberAPI) listMembers(c echo.Context) error {

	members, err := a.members.ListMembers(c.Request().Context(), actorOf(c), c.QueryParam("q"))
	if err != nil {
		return fail(c, err)
	}

	return success(c, members)
}

func (a *MemberAPI) createMember(c echo.Context) error {
	return a.saveMember(c, "")
}

func (a *MemberAPI) updateMember(c echo.Context) error {
	return a.saveMember(c, c.Param("id"))
}

func (a *MemberAPI) saveMember(c echo.Context, id string) error {

	var req model.MemberRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}

	member, err := a.members.SaveMember(c.Request().Context(), actorOf(c), id, req)
	if err != nil {
		return fail(c, err)
	}

	return success(c, member)
}

func (a *MemberAPI) deleteMember(c echo.Context) error {

	err := a.members.DeleteMember(c.Request().Context(), actorOf(c), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}

	return success(c, nil)
}

func (a *MemberAPI) importMembers(c echo.Context) error {

	csvfile, err := c.FormFile("csvfile")
	if err != nil {
		return c.JSON(
			http.StatusBadRequest,
			model.BaseResponse{
				Message: err.Error(),
			},
		)
	}

	cf, err := csvfile.Open()
	if err != nil {
		return c.JSON(
			http.StatusBadRequest,
			model.BaseResponse{
				Message: err.Error(),
			},
		)
	}

	defer cf.Close()

	n, err := a.members.ImportMembers(c.Request().Context(), actorOf(c), cf)
	if err != nil {
		return fail(c, err)
	}

	return success(c, model.ImportResult{Imported: n})
}

func (a *MemberAPI) exportMembers(c echo.Context) error {

	var buf bytes.Buffer
	if err := a.members.ExportMembers(c.Request().Context(), actorOf(c), &buf); err != nil {
		return fail(c, err)
	}

	return csvAttachment(c, "members.csv", buf.Bytes())
}

func csvAttachment(c echo.Context, filename string, body []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", body)
}
