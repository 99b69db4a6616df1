package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Spok95/school-dashboard/internal/auth"
	"github.com/Spok95/school-dashboard/internal/ctxutil"
	"github.com/Spok95/school-dashboard/internal/dashboard"
	"github.com/Spok95/school-dashboard/internal/db"
	"github.com/Spok95/school-dashboard/internal/export"
	"github.com/Spok95/school-dashboard/internal/metrics"
	"github.com/Spok95/school-dashboard/internal/models"
	"github.com/Spok95/school-dashboard/internal/observability"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad request body")
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.Request().Context())
	defer cancel()
	user, err := db.GetUserByUsername(ctx, s.db, req.Username)
	if err != nil {
		// не различаем "нет пользователя" и "не тот пароль"
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if !user.IsActive {
		return echo.NewHTTPError(http.StatusForbidden, "account disabled")
	}

	token, err := auth.GenerateToken(user, []byte(s.cfg.JWTSecret))
	if err != nil {
		return s.internalError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token, "user": user})
}

func (s *Server) handleMe(c echo.Context) error {
	return c.JSON(http.StatusOK, currentUser(c))
}

func (s *Server) handleState(c echo.Context) error {
	state, err := dashboard.GetState(c.Request().Context(), s.db)
	if err != nil {
		return s.internalError(c, err)
	}
	return c.JSON(http.StatusOK, state)
}

func (s *Server) handleSave(c echo.Context) error {
	var payload dashboard.SavePayload
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad request body")
	}

	t0 := time.Now()
	err := dashboard.Save(c.Request().Context(), s.db, payload)
	if err != nil {
		var ve *dashboard.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "validation", "field": ve.Field, "reason": ve.Reason,
			})
		}
		return s.internalError(c, err)
	}
	metrics.ObserveSave(time.Since(t0))
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func (s *Server) handleClear(c echo.Context) error {
	if err := dashboard.ClearAll(c.Request().Context(), s.db); err != nil {
		return s.internalError(c, err)
	}
	s.log.Infow("dashboard cleared", "user", currentUser(c).ID)
	return c.JSON(http.StatusOK, echo.Map{"status": "cleared_all"})
}

func (s *Server) handleLessonAdd(c echo.Context) error {
	lesson, err := dashboard.AddLesson(c.Request().Context(), s.db)
	if err != nil {
		return s.internalError(c, err)
	}
	return c.JSON(http.StatusOK, lesson)
}

func (s *Server) handleLessonRemove(c echo.Context) error {
	res, err := dashboard.RemoveLesson(c.Request().Context(), s.db)
	if err != nil {
		return s.internalError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

type levelRequest struct {
	Level string `json:"level"`
}

func (s *Server) handleStudentAdd(c echo.Context) error {
	var req levelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad request body")
	}
	student, err := dashboard.AddStudent(c.Request().Context(), s.db, req.Level)
	if err != nil {
		if resp, ok := invalidLevelResponse(err); ok {
			return c.JSON(http.StatusBadRequest, resp)
		}
		return s.internalError(c, err)
	}
	return c.JSON(http.StatusOK, student)
}

func (s *Server) handleStudentRemove(c echo.Context) error {
	var req levelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad request body")
	}
	res, err := dashboard.RemoveStudent(c.Request().Context(), s.db, req.Level)
	if err != nil {
		if resp, ok := invalidLevelResponse(err); ok {
			return c.JSON(http.StatusBadRequest, resp)
		}
		return s.internalError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) handleExport(c echo.Context) error {
	view, err := dashboard.BuildExportView(c.Request().Context(), s.db)
	if err != nil {
		return s.internalError(c, err)
	}

	content, err := export.DashboardWorkbook(view)
	if err == nil {
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="dashboard.xlsx"`)
		return c.Blob(http.StatusOK,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
	}
	// xlsx не собрался — отдаём CSV, наружу это не ошибка
	s.log.Warnw("xlsx export failed, falling back to csv", "err", err)
	content, err = export.DashboardCSV(view)
	if err != nil {
		return s.internalError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="dashboard.csv"`)
	return c.Blob(http.StatusOK, "text/csv", content)
}

func invalidLevelResponse(err error) (echo.Map, bool) {
	var il *dashboard.ErrInvalidLevel
	if !errors.As(err, &il) {
		return nil, false
	}
	return echo.Map{"error": "invalid_level", "levels": models.Levels}, true
}

func (s *Server) internalError(c echo.Context, err error) error {
	metrics.HandlerErrors.Inc()
	observability.CaptureErr(err)
	s.log.Errorw("handler error", "path", c.Path(), "err", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}
