package apis

import (
	"context"

	"club-manager-backend/cmd/club-manager/model"

	"github.com/labstack/echo/v4"
)

type IAuthService interface {
	Login(ctx context.Context, username, password string) (model.LoginResponse, error)
}

type AuthAPI struct {
	auth IAuthService
}

func NewAuthAPI(auth IAuthService) *AuthAPI {

	return &AuthAPI{
		auth: auth,
	}
}

// Setup registers login on the public group and the session lookup on the
// authenticated one.
func (a *AuthAPI) Setup(public, secured *echo.Group) {
	public.POST("/auth/login", a.login)
	secured.GET("/auth/me", a.me)
}

func (a *AuthAPI) login(c echo.Context) error {

	var req model.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}

	resp, err := a.auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return fail(c, err)
	}

	return success(c, resp)
}

func (a *AuthAPI) me(c echo.Context) error {
	return success(c, actorOf(c))
}
