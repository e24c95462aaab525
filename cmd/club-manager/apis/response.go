package apis

import (
	"errors"
	"net/http"

	"club-manager-backend/cmd/club-manager/model"
	"club-manager-backend/cmd/club-manager/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// statusOf maps service errors onto HTTP status codes.
func statusOf(err error) int {

	var httpErr *echo.HTTPError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.As(err, &validationErrs):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrAlreadyEnrolled),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrEventEnded),
		errors.Is(err, service.ErrNotApproved):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidStatus):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

const internalErrorMessage = "internal server error"

func errorMessage(err error) string {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if msg, ok := httpErr.Message.(string); ok {
			return msg
		}
	}
	return err.Error()
}

// fail writes the error envelope. Unmapped errors are reported to the
// client generically; the cause is kept on the context for RequestLogger.
func fail(c echo.Context, err error) error {

	status := statusOf(err)
	message := errorMessage(err)
	if status == http.StatusInternalServerError {
		c.Set(causeKey, err)
		message = internalErrorMessage
	}

	return c.JSON(
		status,
		model.BaseResponse{
			Message: message,
		},
	)
}

func success(c echo.Context, data any) error {
	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    data,
		},
	)
}

// bindAndValidate decodes the request body into req and runs the struct's
// validate tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}
