package apis

import (
	"net/http"
	"strings"

	"club-manager-backend/cmd/club-manager/model"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

const (
	actorKey = "actor"
	causeKey = "error_cause"
)

type ITokenParser interface {
	ParseToken(tokenString string) (model.Actor, error)
}

// RequestValidator plugs validator/v10 into echo's c.Validate.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (v *RequestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

// RequireActor rejects requests without a valid bearer token and stores
// the token's actor on the context for the handlers behind it.
func RequireActor(parser ITokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {

			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				return c.JSON(
					http.StatusUnauthorized,
					model.BaseResponse{
						Message: "missing bearer token",
					},
				)
			}

			actor, err := parser.ParseToken(strings.TrimSpace(token))
			if err != nil {
				return fail(c, err)
			}

			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

func actorOf(c echo.Context) model.Actor {
	actor, _ := c.Get(actorKey).(model.Actor)
	return actor
}

func RequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
			}
			if v.RequestID != "" {
				fields = append(fields, zap.String("request_id", v.RequestID))
			}
			if actor := actorOf(c); actor.ID != "" {
				fields = append(fields, zap.String("user_id", actor.ID))
			}
			if v.Error != nil {
				logger.Error("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			if cause, ok := c.Get(causeKey).(error); ok {
				logger.Error("request", append(fields, zap.Error(cause))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}

func CORS(origins []string) echo.MiddlewareFunc {
	return echo.WrapMiddleware(cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{"Content-Disposition"},
	}).Handler)
}
