package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"sportspicks/internal/models"
	"sportspicks/internal/repository"
	"sportspicks/internal/service"
	"sportspicks/internal/sim"
)

type PickHandler struct {
	Repo     repository.Repository
	QnA      *service.QnAService
	Location *time.Location
}

func (h *PickHandler) Register(r *gin.Engine) {
	group := r.Group("/api/picks")
	group.GET("", h.list)
	group.POST("", h.create)
	group.GET("/:id", h.get)
	group.GET("/:id/qna", h.listQnA)
	group.POST("/:id/ask", h.ask)
	group.GET("/:id/simulate", h.simulate)
}

func (h *PickHandler) list(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	params := repository.ListPicksParams{
		Limit:   intQuery(c, "limit", 50),
		Offset:  intQuery(c, "offset", 0),
		OrderBy: strings.TrimSpace(c.Query("order_by")),
	}
	if v := strings.TrimSpace(c.Query("sport")); v != "" {
		params.Sport = &v
	}
	if v := strings.TrimSpace(c.Query("algorithm")); v != "" {
		params.Algorithm = &v
	}
	if v := strings.TrimSpace(c.Query("result")); v != "" {
		params.Result = &v
	}
	if v := strings.TrimSpace(c.Query("since")); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			Error(c, http.StatusBadRequest, "since must be RFC3339", nil)
			return
		}
		params.Since = &ts
	}
	if v := strings.TrimSpace(c.Query("asc")); v != "" {
		asc := v == "true" || v == "1"
		params.Asc = &asc
	}
	items, err := h.Repo.ListPicks(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountPicks(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, map[string]any{"total": total})
}

type createPickRequest struct {
	Sport           string  `json:"sport"`
	Algorithm       string  `json:"algorithm"`
	HomeTeam        string  `json:"homeTeam"`
	AwayTeam        string  `json:"awayTeam"`
	SelectedSide    string  `json:"selectedSide"`
	Label           string  `json:"label"`
	Odds            *int    `json:"odds"`
	StarRating      int     `json:"starRating"`
	Rationale       string  `json:"rationale"`
	ExternalGameRef int64   `json:"externalGameRef"`
	GameTime        *string `json:"gameTime"`
}

// create stores a hand-made pick. It goes through the same day-bucket
// uniqueness as generated picks, so an operator cannot double-post a slot.
func (h *PickHandler) create(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	var req createPickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	req.Sport = strings.TrimSpace(req.Sport)
	req.Algorithm = strings.TrimSpace(req.Algorithm)
	if req.Algorithm == "" {
		req.Algorithm = "manual"
	}
	if req.Sport == "" || req.HomeTeam == "" || req.AwayTeam == "" {
		Error(c, http.StatusBadRequest, "sport, homeTeam and awayTeam required", nil)
		return
	}
	if req.SelectedSide != models.SideHome && req.SelectedSide != models.SideAway {
		Error(c, http.StatusBadRequest, "selectedSide must be home or away", nil)
		return
	}
	if req.StarRating < 0 || req.StarRating > 5 {
		Error(c, http.StatusBadRequest, "starRating must be 0-5", nil)
		return
	}

	loc := h.Location
	if loc == nil {
		loc = time.UTC
	}
	pickTeam := req.AwayTeam
	if req.SelectedSide == models.SideHome {
		pickTeam = req.HomeTeam
	}
	label := strings.TrimSpace(req.Label)
	if label == "" {
		label = pickTeam + " ML"
	}
	item := &models.Pick{
		Sport:           req.Sport,
		Algorithm:       req.Algorithm,
		DayBucket:       time.Now().In(loc).Format("2006-01-02"),
		HomeTeam:        req.HomeTeam,
		AwayTeam:        req.AwayTeam,
		SelectedSide:    req.SelectedSide,
		PickTeam:        pickTeam,
		Label:           label,
		Odds:            req.Odds,
		StarRating:      req.StarRating,
		Rationale:       req.Rationale,
		ExternalGameRef: req.ExternalGameRef,
		Result:          models.ResultPending,
	}
	if req.GameTime != nil && strings.TrimSpace(*req.GameTime) != "" {
		ts, err := time.Parse(time.RFC3339, strings.TrimSpace(*req.GameTime))
		if err != nil {
			Error(c, http.StatusBadRequest, "gameTime must be RFC3339", nil)
			return
		}
		utc := ts.UTC()
		item.GameTime = &utc
	}

	created, err := h.Repo.InsertPick(c.Request.Context(), item)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if !created {
		Error(c, http.StatusConflict, "a pick for this sport/algorithm already exists today", nil)
		return
	}
	Ok(c, item, nil)
}

func (h *PickHandler) get(c *gin.Context) {
	p, ok := h.lookupPick(c)
	if !ok {
		return
	}
	Ok(c, p, nil)
}

func (h *PickHandler) listQnA(c *gin.Context) {
	p, ok := h.lookupPick(c)
	if !ok {
		return
	}
	items, err := h.Repo.ListPickQnA(c.Request.Context(), p.ID, intQuery(c, "limit", 50))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}

type askRequest struct {
	Question string `json:"question"`
}

func (h *PickHandler) ask(c *gin.Context) {
	if h.QnA == nil {
		Error(c, http.StatusServiceUnavailable, "qna not enabled", nil)
		return
	}
	id, err := pickID(c)
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid pick id", nil)
		return
	}
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	reply, err := h.QnA.Ask(c.Request.Context(), id, strings.TrimSpace(req.Question))
	if err != nil {
		if errors.Is(err, service.ErrPickNotFound) {
			Error(c, http.StatusNotFound, "pick not found", nil)
			return
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	// Replies intentionally vary between calls.
	c.Header("Cache-Control", "no-store")
	Ok(c, gin.H{"reply": reply}, nil)
}

// simulate renders a display script biased toward the pick. The seed defaults
// to the pick id so the page shows a stable script, and can be overridden for
// a fresh rendering.
func (h *PickHandler) simulate(c *gin.Context) {
	p, ok := h.lookupPick(c)
	if !ok {
		return
	}
	seed := int64(p.ID)
	if v := strings.TrimSpace(c.Query("seed")); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			Error(c, http.StatusBadRequest, "seed must be an integer", nil)
			return
		}
		seed = parsed
	}
	favored := p.PickTeam
	underdog := p.HomeTeam
	if p.SelectedSide == models.SideHome {
		underdog = p.AwayTeam
	}
	simulator := sim.New(seed)
	winProb := sim.WinProbability(p.StarRating)
	var script *sim.GameScript
	if p.Sport == models.SportNFL {
		script = simulator.SimulateNFL(favored, underdog, winProb)
	} else {
		script = simulator.SimulateMLB(favored, underdog, winProb)
	}
	Ok(c, script, map[string]any{"seed": seed, "winProbability": winProb})
}

func (h *PickHandler) lookupPick(c *gin.Context) (*models.Pick, bool) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return nil, false
	}
	id, err := pickID(c)
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid pick id", nil)
		return nil, false
	}
	p, err := h.Repo.GetPickByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return nil, false
	}
	if p == nil {
		Error(c, http.StatusNotFound, "pick not found", nil)
		return nil, false
	}
	return p, true
}

func pickID(c *gin.Context) (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
}

func intQuery(c *gin.Context, name string, fallback int) int {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
