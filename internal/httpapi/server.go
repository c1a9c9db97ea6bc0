// Package httpapi serves the board over JSON: the visible projection, the
// gesture entry points, and card and column management.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexanderramin/pipeline/internal/board"
	"github.com/alexanderramin/pipeline/internal/domain"
	"github.com/alexanderramin/pipeline/internal/filter"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Controller is the board controller surface the API drives.
type Controller interface {
	Board() filter.Board
	Snapshot() board.Snapshot
	OnDragStart(d board.DragStart) error
	OnDragEnd(ev board.DragEvent) (*board.Ticket, error)
	SetGlobalQuery(q string) error
	SetColumnQuery(columnID, q string) error
	SetFavoritesOnly(on bool) error
	SetCardFilter(f filter.CardFilter) error
	SetColumnsLocked(locked bool) error
	CreateColumn(ctx context.Context, d domain.ColumnDraft) (*domain.Column, error)
	DeleteColumn(ctx context.Context, id string) (*domain.ColumnDeletion, error)
	SetColumnDisplay(ctx context.Context, id string, m domain.DisplayMode) (*domain.Column, error)
	CardChanged(card *domain.Card) error
	CardRemoved(id string) error
	Reload(ctx context.Context) error
	Subscribe() <-chan board.Notification
	Unsubscribe(ch <-chan board.Notification)
}

// Cards is the card store surface the API writes through.
type Cards interface {
	List(ctx context.Context) ([]*domain.Card, error)
	Get(ctx context.Context, id string) (*domain.Card, error)
	Create(ctx context.Context, d domain.CardDraft) (*domain.Card, error)
	Update(ctx context.Context, id string, p domain.CardPatch) (*domain.Card, error)
	Delete(ctx context.Context, id string) error
	ToggleFavorite(ctx context.Context, id string) (*domain.Card, error)
	AppendMessage(ctx context.Context, id string, m domain.Message) (*domain.Card, error)
}

type Server struct {
	ctrl   Controller
	cards  Cards
	logger *slog.Logger
	echo   *echo.Echo
}

func New(ctrl Controller, cards Cards, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{ctrl: ctrl, cards: cards, logger: logger}
	s.setupEcho()
	return s
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.requestLogger)

	e.GET("/health", s.handleHealth)

	b := e.Group("/board")
	b.GET("", s.handleBoard)
	b.GET("/snapshot", s.handleSnapshot)
	b.GET("/events", s.handleEvents)
	b.POST("/drag-start", s.handleDragStart)
	b.POST("/drag-end", s.handleDragEnd)
	b.PUT("/query", s.handleGlobalQuery)
	b.PUT("/columns/:id/query", s.handleColumnQuery)
	b.PUT("/filter", s.handleCardFilter)
	b.PUT("/lock", s.handleLock)
	b.POST("/reload", s.handleReload)

	e.POST("/columns", s.handleCreateColumn)
	e.DELETE("/columns/:id", s.handleDeleteColumn)
	e.PUT("/columns/:id/display", s.handleColumnDisplay)

	e.GET("/cards", s.handleListCards)
	e.POST("/cards", s.handleCreateCard)
	e.GET("/cards/:id", s.handleGetCard)
	e.PATCH("/cards/:id", s.handleUpdateCard)
	e.DELETE("/cards/:id", s.handleDeleteCard)
	e.POST("/cards/:id/favorite", s.handleToggleFavorite)
	e.POST("/cards/:id/messages", s.handleAppendMessage)

	s.echo = e
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		req := c.Request()
		res := c.Response()
		s.logger.Info("http_request",
			"method", req.Method,
			"uri", req.RequestURI,
			"status", res.Status,
			"size", res.Size,
			"request_id", res.Header().Get(echo.HeaderXRequestID),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on addr until Shutdown. It returns nil after a clean shutdown.
func (s *Server) Start(addr string) error {
	s.logger.Info("http_listen", "addr", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
