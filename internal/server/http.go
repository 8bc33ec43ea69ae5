package server

import (
	"errors"
	"math/rand"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/JFrunk/bridge-bidding-app-sub011/internal/ai"
	"github.com/JFrunk/bridge-bidding-app-sub011/internal/config"
	"github.com/JFrunk/bridge-bidding-app-sub011/internal/engine"
)

type Handler struct {
	Manager *Manager
	Cfg     config.Config
	Log     *zap.Logger
}

func NewHandler(m *Manager, cfg config.Config, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Manager: m, Cfg: cfg, Log: log}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	api := e.Group("/api")
	api.POST("/sessions", h.createSession)
	api.POST("/sessions/:id/start", h.startPlay)
	api.POST("/sessions/:id/play", h.playCard)
	api.POST("/sessions/:id/ai-play", h.aiPlay)
	api.GET("/sessions/:id/state", h.getState)
	api.POST("/sessions/:id/clear-trick", h.clearTrick)
	api.POST("/sessions/:id/score", h.completePlay)
	e.GET("/ws/:id", h.serveWS)
}

type ErrorView struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ServerMessage struct {
	Type   string     `json:"type"`
	State  *PlayView  `json:"state,omitempty"`
	Events []Event    `json:"events,omitempty"`
	Error  *ErrorView `json:"error,omitempty"`
}

type createSessionRequest struct {
	Difficulty string `json:"difficulty,omitempty"`
	Seat       string `json:"seat,omitempty"`
	Seed       *int64 `json:"seed,omitempty"`
}

type createSessionResponse struct {
	SessionID  string `json:"sessionId"`
	Seat       string `json:"seat"`
	Difficulty string `json:"difficulty"`
}

func (h *Handler) createSession(c echo.Context) error {
	var req createSessionRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "bad_request", "invalid json")
	}
	difficulty := ai.Difficulty(req.Difficulty)
	if req.Difficulty == "" {
		difficulty = ai.Difficulty(h.Cfg.DefaultDifficulty)
	}
	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}
	strategy, err := ai.ForDifficulty(difficulty, seed, h.Cfg.SearchBudget, h.Cfg.SolverBudget, h.Log)
	if err != nil {
		return fail(c, http.StatusBadRequest, "bad_difficulty", err.Error())
	}
	seat := engine.South
	if req.Seat != "" {
		if seat, err = parsePosition(req.Seat); err != nil {
			return fail(c, http.StatusBadRequest, "bad_request", err.Error())
		}
	}
	s := h.Manager.Create(seat, strategy)
	return c.JSON(http.StatusCreated, createSessionResponse{
		SessionID:  s.ID(),
		Seat:       seat.String(),
		Difficulty: string(difficulty),
	})
}

type contractRequest struct {
	Level    int    `json:"level"`
	Strain   string `json:"strain"`
	Declarer string `json:"declarer"`
	Doubled  int    `json:"doubled,omitempty"`
}

type startPlayRequest struct {
	Dealer        string           `json:"dealer,omitempty"`
	Calls         []string         `json:"calls,omitempty"`
	Contract      *contractRequest `json:"contract,omitempty"`
	Vulnerability string           `json:"vulnerability,omitempty"`
	Seed          *int64           `json:"seed,omitempty"`
}

type startPlayResponse struct {
	Contract      string `json:"contract"`
	Declarer      string `json:"declarer"`
	OpeningLeader string `json:"openingLeader"`
}

func (h *Handler) startPlay(c echo.Context) error {
	s, err := h.Manager.Get(c.Param("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	var req startPlayRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "bad_request", "invalid json")
	}
	vuln, err := parseVulnerability(req.Vulnerability)
	if err != nil {
		return fail(c, http.StatusBadRequest, "bad_request", err.Error())
	}

	var auction *engine.Auction
	var contract *engine.Contract
	switch {
	case len(req.Calls) > 0:
		a, err := parseAuction(req.Dealer, req.Calls)
		if err != nil {
			return fail(c, http.StatusBadRequest, "bad_request", err.Error())
		}
		auction = &a
	case req.Contract != nil:
		declarer, err := parsePosition(req.Contract.Declarer)
		if err != nil {
			return fail(c, http.StatusBadRequest, "bad_request", err.Error())
		}
		strain, err := parseStrain(req.Contract.Strain)
		if err != nil {
			return fail(c, http.StatusBadRequest, "bad_request", err.Error())
		}
		if req.Contract.Level < 1 || req.Contract.Level > 7 {
			return fail(c, http.StatusBadRequest, "bad_request", "invalid contract level")
		}
		contract = &engine.Contract{
			Level:    req.Contract.Level,
			Strain:   strain,
			Declarer: declarer,
			Doubled:  req.Contract.Doubled,
		}
	}

	seed := rand.Int63()
	if req.Seed != nil {
		seed = *req.Seed
	}
	res, err := s.StartPlay(auction, contract, vuln, seed)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, startPlayResponse{
		Contract:      res.Contract.String(),
		Declarer:      res.Contract.Declarer.String(),
		OpeningLeader: res.OpeningLeader.String(),
	})
}

type playCardRequest struct {
	Position string `json:"position"`
	Card     string `json:"card"`
}

type playResponse struct {
	Card          string `json:"card,omitempty"`
	TrickComplete bool   `json:"trickComplete"`
	TrickWinner   string `json:"trickWinner,omitempty"`
}

func (h *Handler) playCard(c echo.Context) error {
	s, err := h.Manager.Get(c.Param("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	var req playCardRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "bad_request", "invalid json")
	}
	pos, err := parsePosition(req.Position)
	if err != nil {
		return fail(c, http.StatusBadRequest, "bad_request", err.Error())
	}
	card, err := parseCard(req.Card)
	if err != nil {
		return fail(c, http.StatusBadRequest, "bad_request", err.Error())
	}
	res, err := s.PlayCard(pos, card)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, toPlayResponse("", res))
}

type aiPlayRequest struct {
	Position string `json:"position"`
}

func (h *Handler) aiPlay(c echo.Context) error {
	s, err := h.Manager.Get(c.Param("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	var req aiPlayRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "bad_request", "invalid json")
	}
	pos, err := parsePosition(req.Position)
	if err != nil {
		return fail(c, http.StatusBadRequest, "bad_request", err.Error())
	}
	card, res, err := s.AIPlay(c.Request().Context(), pos)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, toPlayResponse(card.String(), res))
}

func (h *Handler) getState(c echo.Context) error {
	s, err := h.Manager.Get(c.Param("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	view, err := s.Snapshot()
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) clearTrick(c echo.Context) error {
	s, err := h.Manager.Get(c.Param("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	view, err := s.ClearTrick()
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

type scoreResponse struct {
	TricksTaken int    `json:"tricksTaken"`
	Made        bool   `json:"made"`
	Result      string `json:"result"`
	Points      int    `json:"points"`
}

type scoreRequest struct {
	Vulnerability string `json:"vulnerability,omitempty"`
}

func (h *Handler) completePlay(c echo.Context) error {
	s, err := h.Manager.Get(c.Param("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	var req scoreRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "bad_request", "invalid json")
	}
	var vuln *engine.Vulnerability
	if req.Vulnerability != "" {
		v, err := parseVulnerability(req.Vulnerability)
		if err != nil {
			return fail(c, http.StatusBadRequest, "bad_request", err.Error())
		}
		vuln = &v
	}
	score, err := s.CompletePlay(vuln)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, scoreResponse{
		TricksTaken: score.TricksTaken,
		Made:        score.Made,
		Result:      score.Result,
		Points:      score.Points,
	})
}

func toPlayResponse(card string, res engine.PlayResult) playResponse {
	out := playResponse{Card: card, TrickComplete: res.TrickComplete}
	if res.TrickComplete {
		out.TrickWinner = res.TrickWinner.String()
	}
	return out
}

func (h *Handler) mapError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return fail(c, http.StatusNotFound, "session_not_found", "session expired or never started")
	case errors.Is(err, engine.ErrMalformedAuction):
		return fail(c, http.StatusBadRequest, "malformed_auction", err.Error())
	case errors.Is(err, engine.ErrOutOfTurn):
		return fail(c, http.StatusConflict, "out_of_turn", err.Error())
	case errors.Is(err, engine.ErrIllegalMove):
		return fail(c, http.StatusConflict, "illegal_move", err.Error())
	case errors.Is(err, engine.ErrHandComplete):
		return fail(c, http.StatusConflict, "hand_complete", err.Error())
	case errors.Is(err, engine.ErrHandNotComplete):
		return fail(c, http.StatusConflict, "hand_not_complete", err.Error())
	case errors.Is(err, ErrNoActiveHand):
		return fail(c, http.StatusConflict, "no_active_hand", err.Error())
	case errors.Is(err, ErrNotAISeat), errors.Is(err, ErrNotYourSeat):
		return fail(c, http.StatusForbidden, "wrong_seat", err.Error())
	default:
		h.Log.Warn("unmapped request error", zap.Error(err))
		return fail(c, http.StatusBadRequest, "bad_request", err.Error())
	}
}

func fail(c echo.Context, status int, code, message string) error {
	return c.JSON(status, map[string]*ErrorView{
		"error": {Code: code, Message: message},
	})
}
