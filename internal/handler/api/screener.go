package api

import (
	"errors"
	"net/http"
	"time"

	models "TradeScout/internal/domain/models"
	domrepo "TradeScout/internal/domain/repository"
	"TradeScout/internal/service/ratelimit"
	"TradeScout/internal/usecase"
	"TradeScout/pkg/cache"
	xhttp "TradeScout/pkg/http"
	xlogger "TradeScout/pkg/logger"
	xutil "TradeScout/pkg/util"

	"github.com/labstack/echo/v4"
)

// ScreenerHandler exposes the scan pipeline over Echo.
type ScreenerHandler struct {
	logger *xlogger.Logger
	runner *usecase.ScanRunner
	store  domrepo.SignalStore // optional; history 404s without it
	rl     *ratelimit.Limiter
}

func NewScreenerHandler(logger *xlogger.Logger, runner *usecase.ScanRunner, store domrepo.SignalStore) *ScreenerHandler {
	return &ScreenerHandler{logger: logger, runner: runner, store: store, rl: ratelimit.New()}
}

func (h *ScreenerHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/scan", h.Scan)
	g.GET("/signals/latest", h.Latest)
	g.GET("/signals/history", h.History)
	g.GET("/health", h.Health)
}

// Scan runs the pipeline on the current snapshot and returns the ranked run.
func (h *ScreenerHandler) Scan(c echo.Context) error {
	if !h.rl.Allow(c.RealIP()+":scan", 5, 1) {
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_RATE_LIMITED", "", "too many scan requests", http.StatusTooManyRequests))
	}

	res, err := h.runner.Run(c.Request().Context())
	if err != nil {
		h.logger.Error("scan usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// Latest serves the most recent cached run.
func (h *ScreenerHandler) Latest(c echo.Context) error {
	res, err := h.runner.Latest(c.Request().Context())
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no scan has completed yet"))
		}
		h.logger.Error("latest signals error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// History queries the persisted per-ticker signal history.
func (h *ScreenerHandler) History(c echo.Context) error {
	if h.store == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("signal history is not enabled"))
	}
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	now := time.Now().UTC()
	from := xutil.ParseTimeDefault(req.From, now.AddDate(0, 0, -7))
	to := xutil.ParseTimeDefault(req.To, now)
	if to.Before(from) {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("to must not be before from"))
	}

	signals, err := h.store.QueryHistory(c.Request().Context(), req.Ticker, from, to, req.Limit)
	if err != nil {
		h.logger.Error("history query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, signals, int64(len(signals)))
}

// Health reports readiness of the storage backend.
func (h *ScreenerHandler) Health(c echo.Context) error {
	status := map[string]string{"status": "ok"}
	if h.store != nil {
		if err := h.store.Health(c.Request().Context()); err != nil {
			status["status"] = "degraded"
			status["store"] = err.Error()
			return xhttp.DataResponse(c, http.StatusServiceUnavailable, status)
		}
		status["store"] = "ok"
	}
	return xhttp.SuccessResponse(c, status)
}
