package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const pingTimeout = 800 * time.Millisecond

type HealthCtrl struct {
	db      *gorm.DB
	log     *zap.Logger
	started time.Time
}

func NewHealthCtrl(db *gorm.DB, log *zap.Logger) *HealthCtrl {
	if log == nil {
		log = zap.NewNop()
	}
	return &HealthCtrl{db: db, log: log.Named("health"), started: time.Now()}
}

type check struct {
	OK  bool   `json:"ok"`
	Err string `json:"err,omitempty"`
}

type healthResp struct {
	OK        bool             `json:"ok"`
	UptimeSec int              `json:"uptime_sec"`
	Checks    map[string]check `json:"checks"`
	Time      string           `json:"time"`
}

func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), pingTimeout)
	defer cancel()

	db := h.pingDB(ctx)
	resp := healthResp{
		OK:        db.OK,
		UptimeSec: int(time.Since(h.started).Seconds()),
		Checks:    map[string]check{"database": db},
		Time:      time.Now().Format(time.RFC3339),
	}
	if !resp.OK {
		h.log.Warn("unhealthy", zap.String("database", db.Err))
		return c.JSON(http.StatusServiceUnavailable, resp)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *HealthCtrl) pingDB(ctx context.Context) check {
	if h.db == nil {
		return check{Err: "no database configured"}
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return check{Err: "db.DB(): " + err.Error()}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return check{Err: "ping: " + err.Error()}
	}
	return check{OK: true}
}
