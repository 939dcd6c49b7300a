package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/valyala/fasthttp"

	"github.com/mswatii/cs2-craftcalc/internal/logger"
	"github.com/mswatii/cs2-craftcalc/internal/models"
	"github.com/mswatii/cs2-craftcalc/internal/pricing"
	"github.com/mswatii/cs2-craftcalc/internal/service"
)

// errBadRequest marks malformed or missing request input
var errBadRequest = errors.New("bad request")

type errorResponse struct {
	Error       string   `json:"error"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func badRequest(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, models.ErrCeilingBelowDomain),
		errors.Is(err, models.ErrTierNotFound):
		return fasthttp.StatusBadRequest
	case errors.Is(err, models.ErrUnknownMaterial),
		errors.Is(err, models.ErrNotMapped),
		errors.Is(err, models.ErrUnknownLine),
		errors.Is(err, models.ErrUnknownOutputKind),
		errors.Is(err, models.ErrUnknownItem),
		errors.Is(err, service.ErrHistoryDisabled):
		return fasthttp.StatusNotFound
	case errors.Is(err, pricing.ErrPriceUnavailable):
		return fasthttp.StatusBadGateway
	default:
		return fasthttp.StatusInternalServerError
	}
}

func writeError(ctx *fasthttp.RequestCtx, err error) {
	status := statusFor(err)
	resp := errorResponse{Error: err.Error()}

	var lookupErr *models.LookupError
	if errors.As(err, &lookupErr) {
		resp.Suggestions = lookupErr.Suggestions
	}

	log := logger.FromContext(requestContext(ctx))
	if status >= fasthttp.StatusInternalServerError {
		log.Error("Request failed", "path", string(ctx.Path()), "status", status, "error", err)
	} else {
		log.Warn("Request rejected", "path", string(ctx.Path()), "status", status, "error", err)
	}
	writeJSON(ctx, status, resp)
}

// validationError turns validator output into a readable bad request error
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return badRequest("%v", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required", "required_without":
			msgs = append(msgs, field+" is required")
		case "gte", "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "lte", "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", field, fe.Tag()))
		}
	}
	return badRequest("%s", strings.Join(msgs, "; "))
}
