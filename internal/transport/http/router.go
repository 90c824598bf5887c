package http

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	fiber "github.com/gofiber/fiber/v2"
	swagger "github.com/gofiber/swagger"

	"github.com/gokbeyinac/Trade-Logbook/internal/domain"
	"github.com/gokbeyinac/Trade-Logbook/internal/usecase"
)

const (
	sessionCookie  = "session_id"
	sessionMaxAge  = 30 * 24 * time.Hour
	requestTimeout = 10 * time.Second
)

type AuthService interface {
	Register(ctx context.Context, username, pin string) (domain.User, domain.Session, error)
	Login(ctx context.Context, username, pin string) (domain.User, domain.Session, error)
	Logout(ctx context.Context, sessionID string) error
	ResolveSession(ctx context.Context, sessionID string) (string, error)
	ResolveWebhookToken(ctx context.Context, token string) (domain.User, error)
	GetUser(ctx context.Context, userID string) (domain.User, error)
	RotateWebhookToken(ctx context.Context, userID string) (domain.User, error)
}

type JournalService interface {
	ProcessSignal(ctx context.Context, userID string, sig domain.Signal) (domain.Trade, error)
	LogTrade(ctx context.Context, userID string, input usecase.NewTrade) (domain.Trade, error)
	UpdateTrade(ctx context.Context, userID string, id int64, updates domain.TradeUpdate) (domain.Trade, error)
	GetTrade(ctx context.Context, userID string, id int64) (domain.Trade, error)
	ListTrades(ctx context.Context, userID string, includeHidden bool) ([]domain.Trade, error)
	SetTradeHidden(ctx context.Context, userID string, id int64, hidden bool) (domain.Trade, error)
	DeleteTrade(ctx context.Context, userID string, id int64) error
	Statistics(ctx context.Context, userID string) (domain.TradeStatistics, error)
}

type Router struct {
	app     *fiber.App
	auth    AuthService
	journal JournalService
}

func New(auth AuthService, journal JournalService) *Router {
	app := fiber.New()

	r := &Router{
		app:     app,
		auth:    auth,
		journal: journal,
	}

	api := app.Group("/api")
	v1 := api.Group("/v1")

	v1.Post("/auth/register", r.register)
	v1.Post("/auth/login", r.login)
	v1.Post("/auth/logout", r.logout)
	v1.Get("/auth/user", r.requireSession, r.currentUser)
	v1.Post("/auth/webhook-token", r.requireSession, r.rotateWebhookToken)

	v1.Get("/trades", r.requireSession, r.listTrades)
	v1.Post("/trades", r.requireSession, r.createTrade)
	v1.Get("/trades/stats", r.requireSession, r.tradeStats)
	v1.Get("/trades/:id", r.requireSession, r.getTrade)
	v1.Patch("/trades/:id", r.requireSession, r.updateTrade)
	v1.Delete("/trades/:id", r.requireSession, r.deleteTrade)
	v1.Patch("/trades/:id/hidden", r.requireSession, r.toggleHidden)

	v1.Post("/webhook/:token", r.handleWebhook)

	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	return r
}

func (r *Router) App() *fiber.App {
	return r.app
}

func userContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// requireSession resolves the session cookie to a user ID and stashes it in
// the request locals. Everything behind it can assume an authenticated owner.
func (r *Router) requireSession(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(userContext(c), requestTimeout)
	defer cancel()

	userID, err := r.auth.ResolveSession(ctx, c.Cookies(sessionCookie))
	if err != nil {
		return writeError(c, err)
	}

	c.Locals("userID", userID)
	return c.Next()
}

func ownerID(c *fiber.Ctx) string {
	id, _ := c.Locals("userID").(string)
	return id
}

type credentialsRequest struct {
	Username string `json:"username"`
	PIN      string `json:"pin"`
}

type userResponse struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	WebhookToken string `json:"webhookToken,omitempty"`
}

// register godoc
// @Summary Register a new user and start a session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body credentialsRequest true "Username and PIN"
// @Success 201 {object} userResponse
// @Failure 400 {object} map[string]string
// @Router /auth/register [post]
func (r *Router) register(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}

	ctx, cancel := context.WithTimeout(userContext(c), requestTimeout)
	defer cancel()

	user, session, err := r.auth.Register(ctx, req.Username, req.PIN)
	if err != nil {
		return writeError(c, err)
	}

	setSessionCookie(c, session)
	return c.Status(fiber.StatusCreated).JSON(userResponse{ID: user.ID, Username: user.Username})
}

// login godoc
// @Summary Log in with username and PIN
// @Tags auth
// @Accept json
// @Produce json
// @Param request body credentialsRequest true "Username and PIN"
// @Success 200 {object} userResponse
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (r *Router) login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}

	ctx, cancel := context.WithTimeout(userContext(c), requestTimeout)
	defer cancel()

	user, session, err := r.auth.Login(ctx, req.Username, req.PIN)
	if err != nil {
		return writeError(c, err)
	}

	setSessionCookie(c, session)
	return c.JSON(userResponse{ID: user.ID, Username: user.Username})
}

// logout godoc
// @Summary End the current session
// @Tags auth
// @Success 204
// @Router /auth/logout [post]
func (r *Router) logout(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(userContext(c), requestTimeout)
	defer cancel()

	if err := r.auth.Logout(ctx, c.Cookies(sessionCookie)); err != nil {
		return writeError(c, err)
	}

	clearSessionCookie(c)
	return c.SendStatus(fiber.StatusNoContent)
}

// currentUser godoc
// @Summary Fetch the authenticated user, including the webhook token
// @Tags auth
// @Produce json
// @Success 200 {object} userResponse
// @Failure 401 {object} map[string]string
// @Router /auth/user [get]
func (r *Router) currentUser(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(userContext(c), requestTimeout)
	defer cancel()

	user, err := r.auth.GetUser(ctx, ownerID(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(userResponse{ID: user.ID, Username: user.Username, WebhookToken: user.WebhookToken})
}

// rotateWebhookToken godoc
// @Summary Rotate the user's webhook token, invalidating the old alert URL
// @Tags auth
// @Produce json
// @Success 200 {object} userResponse
// @Failure 401 {object} map[string]string
// @Router /auth/webhook-token [post]
func (r *Router) rotateWebhookToken(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(userContext(c), requestTimeout)
	defer cancel()

	user, err := r.auth.RotateWebhookToken(ctx, ownerID(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(userResponse{ID: user.ID, Username: user.Username, WebhookToken: user.WebhookToken})
}

type tradeRequest struct {
	Symbol     string   `json:"symbol"`
	Direction  string   `json:"direction"`
	EntryPrice float64  `json:"entryPrice"`
	ExitPrice  *float64 `json:"exitPrice"`
	Quantity   float64  `json:"quantity"`
	EntryTime  string   `json:"entryTime"`
	ExitTime   string   `json:"exitTime"`
	Fees       float64  `json:"fees"`
	Strategy   string   `json:"strategy"`
	Tags       []string `json:"tags"`
	Notes      string   `json:"notes"`
}

type tradeUpdateRequest struct {
	Symbol     *string  `json:"symbol"`
	Direction  *string  `json:"direction"`
	Status     *string  `json:"status"`
	EntryPrice *float64 `json:"entryPrice"`
	ExitPrice  *float64 `json:"exitPrice"`
	Quantity   *float64 `json:"quantity"`
	EntryTime  *string  `json:"entryTime"`
	ExitTime   *string  `json:"exitTime"`
	Fees       *float64 `json:"fees"`
	Strategy   *string  `json:"strategy"`
	Tags       []string `json:"tags"`
	Notes      *string  `json:"notes"`
}

type tradeResponse struct {
	ID         int64    `json:"id"`
	Symbol     string   `json:"symbol"`
	Direction  string   `json:"direction"`
	Status     string   `json:"status"`
	EntryPrice float64  `json:"entryPrice"`
	ExitPrice  *float64 `json:"exitPrice"`
	Quantity   float64  `json:"quantity"`
	EntryTime  string   `json:"entryTime"`
	ExitTime   *string  `json:"exitTime"`
	Fees       float64  `json:"fees"`
	PnL        *float64 `json:"pnl"`
	Strategy   string   `json:"strategy"`
	Tags       []string `json:"tags"`
	Notes      string   `json:"notes"`
	Source     string   `json:"source"`
	Hidden     bool     `json:"hidden"`
}

type statsResponse struct {
	TotalTrades   int      `json:"totalTrades"`
	WinningTrades int      `json:"winningTrades"`
	LosingTrades  int      `json:"losingTrades"`
	WinRate       float64  `json:"winRate"`
	TotalPnL      float64  `json:"totalPnL"`
	ProfitFactor  *float64 `json:"profitFactor"`
	AverageWin    float64  `json:"averageWin"`
	AverageLoss   float64  `json:"averageLoss"`
	LargestWin    float64  `json:"largestWin"`
	LargestLoss   float64  `json:"largestLoss"`
}

// listTrades godoc
// @Summary List the user's trades, newest entry first
// @Tags trades
// @Produce json
// @Param include_hidden query bool false "Include hidden trades"
// @Success 200 {array} tradeResponse
// @Failure 401 {object} map[string]string
// @Router /trades [get]
func (r *Router) listTrades(c *fiber.Ctx) error {
	includeHidden := c.QueryBool("include_hidden", false)

	ctx, cancel := context.WithTimeout(userContext(c), requestTimeout)
	defer cancel()

	trades, err := r.journal.ListTrades(ctx, ownerID(c), includeHidden)
	if err != nil {
		return writeError(c, err)
	}

	out := make([]tradeResponse, len(trades))
	for i, trade := range trades {
		out[i] = toTradeResponse(trade)
	}
	return c.JSON(out)
}

// createTrade godoc
// @Summary Log a trade manually
// @Tags trades
// @Accept json
// @Produce json
// @Param request body tradeRequest true "Trade payload; omit exit fields to log an open position"
// @Success 201 {object} tradeResponse
// @Failure 400 {object} map[string]string
// @Router /trades [post]
func (r *Router) createTrade(c *fiber.Ctx) error {
	var req tradeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}

	direction, ok := domain.ParseDirection(req.Direction)
	if !ok {
		return writeError(c, &domain.ValidationError{Fields: []domain.FieldError{
			{Field: "direction", Message: "direction must be long or short"},
		}})
	}

	input := usecase.NewTrade{
		Symbol:     req.Symbol,
		Direction:  direction,
		EntryPrice: req.EntryPrice,
		ExitPrice:  req.ExitPrice,
		Quantity:   req.Quantity,
		EntryTime:  parseTime(req.EntryTime),
		Fees:       req.Fees,
		Strategy:   req.Strategy,
		Tags:       req.Tags,
		Notes:      req.Notes,
	}
	if req.ExitTime != "" {
		t := parseTime(req.ExitTime)
		if t.IsZero() {
			return writeError(c, &domain.ValidationError{Fields: []domain.FieldError{
				{Field: "exitTime", Message: "invalid timestamp"},
			}})
		}
		input.ExitTime = &t
	}

	ctx, cancel := context.WithTimeout(userContext(c), requestTimeout)
	defer cancel()

	trade, err := r.journal.LogTrade(ctx, ownerID(c), input)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toTradeResponse(trade))
}

// tradeStats godoc
// @Summary Performance statistics over the user's closed, visible trades
// @Tags trades
// @Produce json
// @Success 200 {object} statsResponse
// @Failure 401 {object} map[string]string
// @Router /trades/stats [get]
func (r *Router) tradeStats(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(userContext(c), requestTimeout)
	defer cancel()

	stats, err := r.journal.Statistics(ctx, ownerID(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(toStatsResponse(stats))
}

// getTrade godoc
// @Summary Fetch a single trade
// @Tags trades
// @Produce json
// @Param id path int true "Trade ID"
// @Success 200 {object} tradeResponse
// @Failure 404 {object} map[string]string
// @Router /trades/{id} [get]
func (r *Router) getTrade(c *fiber.Ctx) error {
	id, err := tradeID(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(userContext(c), requestTimeout)
	defer cancel()

	trade, err := r.journal.GetTrade(ctx, ownerID(c), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(toTradeResponse(trade))
}

// updateTrade godoc
// @Summary Apply a partial edit to a trade
// @Tags trades
// @Accept json
// @Produce json
// @Param id path int true "Trade ID"
// @Param request body tradeUpdateRequest true "Fields to change"
// @Success 200 {object} tradeResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /trades/{id} [patch]
func (r *Router) updateTrade(c *fiber.Ctx) error {
	id, err := tradeID(c)
	if err != nil {
		return err
	}

	var req tradeUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}

	updates, verr := toTradeUpdate(req)
	if verr != nil {
		return writeError(c, verr)
	}

	ctx, cancel := context.WithTimeout(userContext(c), requestTimeout)
	defer cancel()

	trade, err := r.journal.UpdateTrade(ctx, ownerID(c), id, updates)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(toTradeResponse(trade))
}

// deleteTrade godoc
// @Summary Permanently delete a trade
// @Tags trades
// @Param id path int true "Trade ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /trades/{id} [delete]
func (r *Router) deleteTrade(c *fiber.Ctx) error {
	id, err := tradeID(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(userContext(c), requestTimeout)
	defer cancel()

	if err := r.journal.DeleteTrade(ctx, ownerID(c), id); err != nil {
		return writeError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// toggleHidden godoc
// @Summary Hide or unhide a trade without touching its financial data
// @Tags trades
// @Accept json
// @Produce json
// @Param id path int true "Trade ID"
// @Param request body map[string]bool true "{\"hidden\": true}"
// @Success 200 {object} tradeResponse
// @Failure 404 {object} map[string]string
// @Router /trades/{id}/hidden [patch]
func (r *Router) toggleHidden(c *fiber.Ctx) error {
	id, err := tradeID(c)
	if err != nil {
		return err
	}

	var req struct {
		Hidden *bool `json:"hidden"`
	}
	if err := c.BodyParser(&req); err != nil || req.Hidden == nil {
		return fiber.NewError(fiber.StatusBadRequest, "hidden must be a boolean")
	}

	ctx, cancel := context.WithTimeout(userContext(c), requestTimeout)
	defer cancel()

	trade, err := r.journal.SetTradeHidden(ctx, ownerID(c), id, *req.Hidden)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(toTradeResponse(trade))
}

type webhookRequest struct {
	Action    string  `json:"action"`
	Symbol    string  `json:"symbol"`
	Direction string  `json:"direction"`
	Price     float64 `json:"price"`
	Quantity  float64 `json:"quantity"`
	Strategy  string  `json:"strategy"`
	Time      string  `json:"time"`
}

// handleWebhook godoc
// @Summary Ingest a TradingView alert signal
// @Description An entry action opens a position; an exit action closes the oldest matching open position.
// @Tags webhook
// @Accept json
// @Produce json
// @Param token path string true "Per-user webhook token"
// @Param request body webhookRequest true "Alert payload"
// @Success 201 {object} tradeResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /webhook/{token} [post]
func (r *Router) handleWebhook(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(userContext(c), requestTimeout)
	defer cancel()

	user, err := r.auth.ResolveWebhookToken(ctx, c.Params("token"))
	if err != nil {
		return writeError(c, err)
	}

	var req webhookRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}

	var sigTime time.Time
	if strings.TrimSpace(req.Time) != "" {
		sigTime = parseTime(req.Time)
		if sigTime.IsZero() {
			return writeError(c, &domain.ValidationError{Fields: []domain.FieldError{
				{Field: "time", Message: "invalid timestamp"},
			}})
		}
	}

	direction, _ := domain.ParseDirection(req.Direction)
	sig := domain.Signal{
		Action:    domain.SignalAction(strings.ToLower(strings.TrimSpace(req.Action))),
		Symbol:    req.Symbol,
		Direction: direction,
		Price:     req.Price,
		Quantity:  req.Quantity,
		Strategy:  req.Strategy,
		Time:      sigTime,
	}

	trade, err := r.journal.ProcessSignal(ctx, user.ID, sig)
	if err != nil {
		return writeError(c, err)
	}

	status := fiber.StatusOK
	if sig.Action == domain.ActionEntry {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"success": true, "trade": toTradeResponse(trade)})
}

func tradeID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid trade id")
	}
	return id, nil
}

func toTradeUpdate(req tradeUpdateRequest) (domain.TradeUpdate, error) {
	updates := domain.TradeUpdate{
		EntryPrice: req.EntryPrice,
		ExitPrice:  req.ExitPrice,
		Quantity:   req.Quantity,
		Fees:       req.Fees,
		Strategy:   req.Strategy,
		Tags:       req.Tags,
		Notes:      req.Notes,
	}

	if req.Symbol != nil {
		symbol := domain.NormalizeSymbol(*req.Symbol)
		updates.Symbol = &symbol
	}
	if req.Direction != nil {
		direction, ok := domain.ParseDirection(*req.Direction)
		if !ok {
			return domain.TradeUpdate{}, &domain.ValidationError{Fields: []domain.FieldError{
				{Field: "direction", Message: "direction must be long or short"},
			}}
		}
		updates.Direction = &direction
	}
	if req.Status != nil {
		status := domain.TradeStatus(strings.ToLower(strings.TrimSpace(*req.Status)))
		updates.Status = &status
	}
	if req.EntryTime != nil {
		t := parseTime(*req.EntryTime)
		if t.IsZero() {
			return domain.TradeUpdate{}, &domain.ValidationError{Fields: []domain.FieldError{
				{Field: "entryTime", Message: "invalid timestamp"},
			}}
		}
		updates.EntryTime = &t
	}
	if req.ExitTime != nil {
		t := parseTime(*req.ExitTime)
		if t.IsZero() {
			return domain.TradeUpdate{}, &domain.ValidationError{Fields: []domain.FieldError{
				{Field: "exitTime", Message: "invalid timestamp"},
			}}
		}
		updates.ExitTime = &t
	}

	return updates, nil
}

func toTradeResponse(trade domain.Trade) tradeResponse {
	resp := tradeResponse{
		ID:         trade.ID,
		Symbol:     trade.Symbol,
		Direction:  string(trade.Direction),
		Status:     string(trade.Status),
		EntryPrice: trade.EntryPrice,
		ExitPrice:  trade.ExitPrice,
		Quantity:   trade.Quantity,
		EntryTime:  trade.EntryTime.UTC().Format(time.RFC3339),
		Fees:       trade.Fees,
		Strategy:   trade.Strategy,
		Tags:       trade.Tags,
		Notes:      trade.Notes,
		Source:     string(trade.Source),
		Hidden:     trade.Hidden,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if trade.ExitTime != nil {
		s := trade.ExitTime.UTC().Format(time.RFC3339)
		resp.ExitTime = &s
	}
	if trade.Status == domain.StatusClosed {
		pnl := trade.RealizedPnL()
		resp.PnL = &pnl
	}
	return resp
}

func toStatsResponse(stats domain.TradeStatistics) statsResponse {
	resp := statsResponse{
		TotalTrades:   stats.TotalTrades,
		WinningTrades: stats.WinningTrades,
		LosingTrades:  stats.LosingTrades,
		WinRate:       stats.WinRate,
		TotalPnL:      stats.TotalPnL,
		AverageWin:    stats.AverageWin,
		AverageLoss:   stats.AverageLoss,
		LargestWin:    stats.LargestWin,
		LargestLoss:   stats.LargestLoss,
	}
	// The all-wins sentinel is +Inf, which JSON cannot carry; render null.
	if !math.IsInf(stats.ProfitFactor, 1) {
		pf := stats.ProfitFactor
		resp.ProfitFactor = &pf
	}
	return resp
}

// writeError maps domain errors onto HTTP responses. Infrastructure failures
// collapse into a generic 500 so storage details never leak.
func writeError(c *fiber.Ctx, err error) error {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation failed",
			"details": ve.Fields,
		})
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrUsernameTaken):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}

func setSessionCookie(c *fiber.Ctx, session domain.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    session.ID,
		Expires:  session.ExpiresAt,
		MaxAge:   int(sessionMaxAge.Seconds()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

func clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    "",
		MaxAge:   -1,
		HTTPOnly: true,
		Path:     "/",
	})
}

func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
