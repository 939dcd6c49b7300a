package api

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/mswatii/cs2-craftcalc/internal/models"
	"github.com/mswatii/cs2-craftcalc/internal/pricing"
)

type wearRequest struct {
	Line     string   `validate:"required"`
	Kind     string
	Material string   `validate:"required"`
	Wear     *float64 `validate:"required"`
}

type classifyRequest struct {
	Line string   `validate:"required"`
	Kind string
	Wear *float64 `validate:"required"`
}

type maxWearRequest struct {
	Line     string `validate:"required"`
	Kind     string
	Material string   `validate:"required"`
	Ceiling  *float64 `validate:"required_without=Tier"`
	Tier     string   `validate:"required_without=Ceiling"`
}

type resolveRequest struct {
	Line string `validate:"required"`
	Name string `validate:"required"`
	Tier *models.TierName
}

type priceRequest struct {
	Line     string   `json:"line" validate:"required"`
	Category string   `json:"category"`
	Name     string   `json:"name" validate:"required"`
	Price    *float64 `json:"price" validate:"required,gte=0"`
}

type lineView struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	PrimaryKey  string                `json:"primary_key"`
	DefaultKind string                `json:"default_kind"`
	CraftSize   int                   `json:"craft_size"`
	Kinds       []models.OutputKind   `json:"kinds"`
	Materials   []models.MaterialSpec `json:"materials"`
}

type tierView struct {
	Line  string          `json:"line"`
	Kind  string          `json:"kind"`
	Wear  float64         `json:"wear"`
	Tier  models.TierName `json:"tier"`
	Code  string          `json:"code"`
	Label string          `json:"label"`
}

func arg(ctx *fasthttp.RequestCtx, key string) string {
	return strings.TrimSpace(string(ctx.QueryArgs().Peek(key)))
}

func floatArg(ctx *fasthttp.RequestCtx, key string) (*float64, error) {
	s := arg(ctx, key)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, badRequest("%s must be a number", key)
	}
	return &v, nil
}

func tierArg(ctx *fasthttp.RequestCtx) (*models.TierName, error) {
	s := arg(ctx, "tier")
	if s == "" {
		return nil, nil
	}
	t, err := models.ParseTierName(s)
	if err != nil {
		return nil, badRequest("%v", err)
	}
	return &t, nil
}

// lineArg falls back to the first configured line
func (h *Handler) lineArg(ctx *fasthttp.RequestCtx) string {
	if id := arg(ctx, "line"); id != "" {
		return id
	}
	if lines := h.svc.Catalog().Lines(); len(lines) > 0 {
		return lines[0].ID
	}
	return ""
}

func (h *Handler) categoryArg(lineID, raw string) (models.Category, error) {
	line, err := h.svc.Catalog().Line(lineID)
	if err != nil {
		return "", err
	}
	c, ok := models.ParseCategory(raw, line.PrimaryKey)
	if !ok {
		return "", badRequest("unknown category %q", raw)
	}
	return c, nil
}

func (h *Handler) check(v interface{}) error {
	if err := h.validate.Struct(v); err != nil {
		return validationError(err)
	}
	return nil
}

func (h *Handler) handleLines(ctx *fasthttp.RequestCtx) {
	lines := h.svc.Catalog().Lines()
	out := make([]lineView, 0, len(lines))
	for _, l := range lines {
		out = append(out, lineView{
			ID:          l.ID,
			Title:       l.Title,
			PrimaryKey:  l.PrimaryKey,
			DefaultKind: l.DefaultKind,
			CraftSize:   l.CraftSize,
			Kinds:       l.Kinds,
			Materials:   l.Materials,
		})
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]interface{}{"lines": out})
}

func (h *Handler) handleMapWear(ctx *fasthttp.RequestCtx) {
	wear, err := floatArg(ctx, "wear")
	if err != nil {
		writeError(ctx, err)
		return
	}
	req := wearRequest{Line: h.lineArg(ctx), Kind: arg(ctx, "kind"), Material: arg(ctx, "material"), Wear: wear}
	if err := h.check(req); err != nil {
		writeError(ctx, err)
		return
	}

	p, err := h.svc.Engine().Predict(req.Line, req.Kind, req.Material, *req.Wear)
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, p)
}

func (h *Handler) handleClassify(ctx *fasthttp.RequestCtx) {
	wear, err := floatArg(ctx, "wear")
	if err != nil {
		writeError(ctx, err)
		return
	}
	req := classifyRequest{Line: h.lineArg(ctx), Kind: arg(ctx, "kind"), Wear: wear}
	if err := h.check(req); err != nil {
		writeError(ctx, err)
		return
	}

	line, err := h.svc.Catalog().Line(req.Line)
	if err != nil {
		writeError(ctx, err)
		return
	}
	kind, err := line.Kind(req.Kind)
	if err != nil {
		writeError(ctx, err)
		return
	}
	tier, err := h.svc.Engine().ClassifyTier(req.Line, kind.ID, *req.Wear)
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, tierView{
		Line:  req.Line,
		Kind:  kind.ID,
		Wear:  *req.Wear,
		Tier:  tier,
		Code:  tier.Code(),
		Label: tier.Label(),
	})
}

func (h *Handler) handleMaxWear(ctx *fasthttp.RequestCtx) {
	ceiling, err := floatArg(ctx, "ceiling")
	if err != nil {
		writeError(ctx, err)
		return
	}
	req := maxWearRequest{
		Line:     h.lineArg(ctx),
		Kind:     arg(ctx, "kind"),
		Material: arg(ctx, "material"),
		Ceiling:  ceiling,
		Tier:     arg(ctx, "tier"),
	}
	if err := h.check(req); err != nil {
		writeError(ctx, err)
		return
	}

	engine := h.svc.Engine()
	if req.Ceiling != nil {
		limit, err := engine.MaxMaterialWear(req.Line, req.Kind, req.Material, *req.Ceiling)
		if err != nil {
			writeError(ctx, err)
			return
		}
		writeJSON(ctx, fasthttp.StatusOK, limit)
		return
	}

	tier, err := models.ParseTierName(req.Tier)
	if err != nil {
		writeError(ctx, badRequest("%v", err))
		return
	}
	limit, err := engine.MaxMaterialWearForTier(req.Line, req.Kind, req.Material, tier)
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, limit)
}

func (h *Handler) handleResolve(ctx *fasthttp.RequestCtx) {
	tier, err := tierArg(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	req := resolveRequest{Line: h.lineArg(ctx), Name: arg(ctx, "name"), Tier: tier}
	if err := h.check(req); err != nil {
		writeError(ctx, err)
		return
	}

	hash, err := h.svc.Resolve(req.Line, req.Name, req.Tier)
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]string{
		"name":             req.Name,
		"market_hash_name": hash,
	})
}

func (h *Handler) handleItems(ctx *fasthttp.RequestCtx) {
	lineID := h.lineArg(ctx)
	c, err := h.categoryArg(lineID, arg(ctx, "category"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	st, err := h.svc.Store(lineID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]interface{}{
		"line":     lineID,
		"category": c,
		"items":    st.Items(c),
	})
}

// handleRefresh refreshes one item when name is given, otherwise the whole category
func (h *Handler) handleRefresh(ctx *fasthttp.RequestCtx) {
	lineID := h.lineArg(ctx)
	c, err := h.categoryArg(lineID, arg(ctx, "category"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	tier, err := tierArg(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	reqCtx, cancel := context.WithTimeout(requestContext(ctx), h.refreshTimeout)
	defer cancel()

	if name := arg(ctx, "name"); name != "" {
		res, err := h.svc.RefreshItem(reqCtx, lineID, c, name, tier)
		if err != nil {
			writeError(ctx, err)
			return
		}
		writeJSON(ctx, fasthttp.StatusOK, res)
		return
	}

	report, err := h.svc.RefreshAll(reqCtx, lineID, c, tier, nil)
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, struct {
		Line     string          `json:"line"`
		Category models.Category `json:"category"`
		pricing.RefreshReport
	}{lineID, c, report})
}

func (h *Handler) handleQuote(ctx *fasthttp.RequestCtx) {
	lineID := h.lineArg(ctx)
	name := arg(ctx, "name")
	if name == "" {
		writeError(ctx, badRequest("name is required"))
		return
	}
	c, err := h.categoryArg(lineID, arg(ctx, "category"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	tier, err := tierArg(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	reqCtx, cancel := context.WithTimeout(requestContext(ctx), h.refreshTimeout)
	defer cancel()
	res, err := h.svc.Quote(reqCtx, lineID, c, name, tier)
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, res)
}

func (h *Handler) handleReset(ctx *fasthttp.RequestCtx) {
	lineID := h.lineArg(ctx)
	if err := h.svc.ResetPrices(lineID); err != nil {
		writeError(ctx, err)
		return
	}
	st, err := h.svc.Store(lineID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, st.State())
}

func (h *Handler) handleSetPrice(ctx *fasthttp.RequestCtx) {
	var req priceRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, badRequest("invalid JSON body: %v", err))
		return
	}
	if req.Line == "" {
		req.Line = h.lineArg(ctx)
	}
	if err := h.check(req); err != nil {
		writeError(ctx, err)
		return
	}
	c, err := h.categoryArg(req.Line, req.Category)
	if err != nil {
		writeError(ctx, err)
		return
	}

	if err := h.svc.SetPrice(req.Line, c, req.Name, *req.Price); err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, models.PriceableItem{Name: req.Name, MinPrice: *req.Price})
}

func (h *Handler) handleProfit(ctx *fasthttp.RequestCtx) {
	lineID := h.lineArg(ctx)
	summary, err := h.svc.Profit(lineID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, summary)
}

// handleHistory returns one item's history when name is given, otherwise the
// latest snapshot of every item of the line
func (h *Handler) handleHistory(ctx *fasthttp.RequestCtx) {
	lineID := h.lineArg(ctx)
	tier, err := tierArg(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	limit := 0
	if s := arg(ctx, "limit"); s != "" {
		if limit, err = strconv.Atoi(s); err != nil || limit < 0 {
			writeError(ctx, badRequest("limit must be a positive integer"))
			return
		}
	}

	name := arg(ctx, "name")
	var snapshots []models.PriceSnapshot
	if name != "" {
		snapshots, err = h.svc.History(requestContext(ctx), lineID, name, tier, limit)
	} else {
		snapshots, err = h.svc.Latest(requestContext(ctx), lineID)
	}
	if err != nil {
		writeError(ctx, err)
		return
	}
	if snapshots == nil {
		snapshots = []models.PriceSnapshot{}
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]interface{}{
		"line":      lineID,
		"snapshots": snapshots,
	})
}
