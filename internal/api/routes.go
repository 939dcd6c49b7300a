package api

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/mswatii/cs2-craftcalc/internal/logger"
	"github.com/mswatii/cs2-craftcalc/internal/metrics"
	"github.com/mswatii/cs2-craftcalc/internal/service"
)

const (
	requestIDHeader   = "X-Request-ID"
	requestContextKey = "craftcalc.request_context"
)

// DefaultRefreshTimeout bounds a whole refresh-all request
const DefaultRefreshTimeout = 2 * time.Minute

// Handler represents the API handler
type Handler struct {
	svc            *service.Service
	validate       *validator.Validate
	metrics        fasthttp.RequestHandler
	refreshTimeout time.Duration
}

// NewHandler creates a new API handler
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		svc:            svc,
		validate:       validator.New(),
		metrics:        fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler()),
		refreshTimeout: DefaultRefreshTimeout,
	}
}

// HandleRequest is the fasthttp entry point
func (h *Handler) HandleRequest(ctx *fasthttp.RequestCtx) {
	start := time.Now()
	path := string(ctx.Path())

	reqID := string(ctx.Request.Header.Peek(requestIDHeader))
	if reqID == "" {
		reqID = logger.GenerateRequestID()
	}
	ctx.Response.Header.Set(requestIDHeader, reqID)
	ctx.SetUserValue(requestContextKey, logger.WithRequestID(context.Background(), reqID))

	route := h.route(ctx, path)

	status := ctx.Response.StatusCode()
	method := string(ctx.Method())
	metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())

	logger.FromContext(requestContext(ctx)).Debug("Request handled",
		"method", method, "path", path, "status", status, "duration", time.Since(start))
}

// route dispatches the request and returns the route label used for metrics
func (h *Handler) route(ctx *fasthttp.RequestCtx, path string) string {
	// Handle web routes first
	if path == "/" || path == "/index.html" {
		h.handleIndex(ctx)
		return "/"
	}
	if strings.HasPrefix(path, "/static/") {
		h.handleStatic(ctx)
		return "/static"
	}

	switch path {
	case "/metrics":
		h.metrics(ctx)
	case "/api/health":
		h.handleHealth(ctx)
	case "/api/lines":
		h.get(ctx, h.handleLines)
	case "/api/wear/map":
		h.get(ctx, h.handleMapWear)
	case "/api/wear/classify":
		h.get(ctx, h.handleClassify)
	case "/api/wear/max":
		h.get(ctx, h.handleMaxWear)
	case "/api/names/resolve":
		h.get(ctx, h.handleResolve)
	case "/api/items":
		h.get(ctx, h.handleItems)
	case "/api/items/refresh":
		h.only(ctx, fasthttp.MethodPost, h.handleRefresh)
	case "/api/items/quote":
		h.get(ctx, h.handleQuote)
	case "/api/items/reset":
		h.only(ctx, fasthttp.MethodPost, h.handleReset)
	case "/api/items/price":
		h.only(ctx, fasthttp.MethodPut, h.handleSetPrice)
	case "/api/profit":
		h.get(ctx, h.handleProfit)
	case "/api/history":
		h.get(ctx, h.handleHistory)
	default:
		writeJSON(ctx, fasthttp.StatusNotFound, errorResponse{Error: "not found"})
		return "other"
	}
	return path
}

func (h *Handler) get(ctx *fasthttp.RequestCtx, next fasthttp.RequestHandler) {
	h.only(ctx, fasthttp.MethodGet, next)
}

func (h *Handler) only(ctx *fasthttp.RequestCtx, method string, next fasthttp.RequestHandler) {
	if string(ctx.Method()) != method {
		ctx.Response.Header.Set("Allow", method)
		writeJSON(ctx, fasthttp.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}
	next(ctx)
}

// requestContext returns the context carrying the request-scoped logger fields
func requestContext(ctx *fasthttp.RequestCtx) context.Context {
	if c, ok := ctx.UserValue(requestContextKey).(context.Context); ok {
		return c
	}
	return context.Background()
}

// handleHealth handles the health check endpoint
func (h *Handler) handleHealth(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v interface{}) {
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json; charset=utf-8")
	enc := json.NewEncoder(ctx)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		logger.FromContext(requestContext(ctx)).Error("Failed to encode response", "error", err)
	}
}
