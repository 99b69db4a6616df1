package app

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Spok95/school-dashboard/internal/auth"
	"github.com/Spok95/school-dashboard/internal/ctxutil"
	"github.com/Spok95/school-dashboard/internal/db"
	"github.com/Spok95/school-dashboard/internal/models"
)

const contextUserKey = "user"

// jwtAuth — проверяет Bearer-токен и перечитывает пользователя из БД,
// чтобы смена роли или деактивация действовали сразу, без чёрных списков.
func (s *Server) jwtAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, err := extractBearer(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		claims, err := auth.ParseToken(raw, []byte(s.cfg.JWTSecret))
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		uid, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
		}

		ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
		defer cancel()
		user, err := db.GetUserByID(ctx, s.db, uid)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
		}
		if !user.IsActive {
			return echo.NewHTTPError(http.StatusForbidden, "account disabled")
		}

		c.Set(contextUserKey, user)
		c.SetRequest(c.Request().WithContext(ctxutil.WithUserID(c.Request().Context(), user.ID)))
		return next(c)
	}
}

func extractBearer(c echo.Context) (string, error) {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if h == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "malformed authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}

func currentUser(c echo.Context) *models.User {
	u, _ := c.Get(contextUserKey).(*models.User)
	return u
}

// requireEdit — админ или учитель: запись данных сетки и добавление
// строк/колонок.
func (s *Server) requireEdit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		u := currentUser(c)
		if u == nil || !u.CanEdit() {
			return echo.NewHTTPError(http.StatusForbidden, "teacher or admin role required")
		}
		return next(c)
	}
}

// requireAdmin — только админ: удаление структуры и полный сброс.
func (s *Server) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		u := currentUser(c)
		if u == nil || !u.HasAdminAccess() {
			return echo.NewHTTPError(http.StatusForbidden, "admin role required")
		}
		return next(c)
	}
}
