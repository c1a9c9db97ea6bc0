package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/alexanderramin/pipeline/internal/board"
	"github.com/alexanderramin/pipeline/internal/domain"
	"github.com/alexanderramin/pipeline/internal/filter"
	"github.com/labstack/echo/v4"
)

func (s *Server) handleBoard(c echo.Context) error {
	return c.JSON(http.StatusOK, toBoardJSON(s.ctrl.Board(), s.ctrl.Snapshot()))
}

func (s *Server) handleSnapshot(c echo.Context) error {
	return c.JSON(http.StatusOK, toSnapshotJSON(s.ctrl.Snapshot()))
}

func (s *Server) handleDragStart(c echo.Context) error {
	var req board.DragStart
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	if err := s.ctrl.OnDragStart(req); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// handleDragEnd applies a drop. With ?wait=true it holds the response until
// the store has confirmed or rejected the move.
func (s *Server) handleDragEnd(c echo.Context) error {
	var req board.DragEvent
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	ticket, err := s.ctrl.OnDragEnd(req)
	if err != nil {
		return err
	}

	wait, _ := strconv.ParseBool(c.QueryParam("wait"))
	if wait {
		outcome, err := ticket.Wait(c.Request().Context())
		if err != nil && outcome == board.OutcomePending {
			return err
		}
	}
	resp := ticketJSON{Outcome: ticket.Outcome()}
	if err := ticket.Err(); err != nil {
		resp.Error = err.Error()
	}
	status := http.StatusOK
	if resp.Outcome == board.OutcomePending {
		status = http.StatusAccepted
	}
	return c.JSON(status, resp)
}

func (s *Server) handleGlobalQuery(c echo.Context) error {
	var req queryJSON
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	if req.Query != nil {
		if err := s.ctrl.SetGlobalQuery(*req.Query); err != nil {
			return err
		}
	}
	if req.FavoritesOnly != nil {
		if err := s.ctrl.SetFavoritesOnly(*req.FavoritesOnly); err != nil {
			return err
		}
	}
	return s.handleBoard(c)
}

func (s *Server) handleColumnQuery(c echo.Context) error {
	var req queryJSON
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	q := ""
	if req.Query != nil {
		q = *req.Query
	}
	if err := s.ctrl.SetColumnQuery(c.Param("id"), q); err != nil {
		return err
	}
	return s.handleBoard(c)
}

// handleCardFilter replaces the board-wide card filter. An empty body clears
// it.
func (s *Server) handleCardFilter(c echo.Context) error {
	var req filter.CardFilter
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	if err := s.ctrl.SetCardFilter(req); err != nil {
		return err
	}
	return s.handleBoard(c)
}

func (s *Server) handleLock(c echo.Context) error {
	var req lockJSON
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	if err := s.ctrl.SetColumnsLocked(req.Locked); err != nil {
		return err
	}
	return s.handleBoard(c)
}

func (s *Server) handleReload(c echo.Context) error {
	if err := s.ctrl.Reload(c.Request().Context()); err != nil {
		return err
	}
	return s.handleBoard(c)
}

// handleEvents streams notifications as server-sent events until the client
// goes away.
func (s *Server) handleEvents(c echo.Context) error {
	notes := s.ctrl.Subscribe()
	defer s.ctrl.Unsubscribe(notes)

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case n, ok := <-notes:
			if !ok {
				return nil
			}
			payload := notificationJSON{Notification: n}
			if n.Err != nil {
				payload.Error = n.Err.Error()
			}
			data, err := json.Marshal(payload)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(res, "event: %s\ndata: %s\n\n", n.Kind, data); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}

func (s *Server) handleCreateColumn(c echo.Context) error {
	var req columnDraftJSON
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	col, err := s.ctrl.CreateColumn(c.Request().Context(), domain.ColumnDraft(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toColumnJSON(col))
}

func (s *Server) handleDeleteColumn(c echo.Context) error {
	res, err := s.ctrl.DeleteColumn(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deletionJSON(*res))
}

func (s *Server) handleColumnDisplay(c echo.Context) error {
	var req displayJSON
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	mode, err := req.mode()
	if err != nil {
		return err
	}
	col, err := s.ctrl.SetColumnDisplay(c.Request().Context(), c.Param("id"), mode)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toColumnJSON(col))
}

func (s *Server) handleListCards(c echo.Context) error {
	cards, err := s.cards.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCardsJSON(cards))
}

func (s *Server) handleGetCard(c echo.Context) error {
	card, err := s.cards.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.cardGone(c.Param("id"), err)
	}
	return c.JSON(http.StatusOK, toCardJSON(card))
}

func (s *Server) handleCreateCard(c echo.Context) error {
	var req cardDraftJSON
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	card, err := s.cards.Create(c.Request().Context(), req.draft())
	if err != nil {
		return err
	}
	if err := s.ctrl.CardChanged(card); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCardJSON(card))
}

func (s *Server) handleUpdateCard(c echo.Context) error {
	var req cardPatchJSON
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	patch := req.patch()
	if patch.IsEmpty() {
		return domain.Invalid("patch", "sets no fields")
	}
	card, err := s.cards.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return s.cardGone(c.Param("id"), err)
	}
	return s.cardChanged(c, card, http.StatusOK)
}

func (s *Server) handleDeleteCard(c echo.Context) error {
	id := c.Param("id")
	if err := s.cards.Delete(c.Request().Context(), id); err != nil {
		return s.cardGone(id, err)
	}
	if err := s.ctrl.CardRemoved(id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleToggleFavorite(c echo.Context) error {
	card, err := s.cards.ToggleFavorite(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.cardGone(c.Param("id"), err)
	}
	return s.cardChanged(c, card, http.StatusOK)
}

func (s *Server) handleAppendMessage(c echo.Context) error {
	var req messageDraftJSON
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	card, err := s.cards.AppendMessage(c.Request().Context(), c.Param("id"), domain.Message{
		Sender:  req.Sender,
		Content: req.Content,
		Type:    req.Type,
	})
	if err != nil {
		return s.cardGone(c.Param("id"), err)
	}
	return s.cardChanged(c, card, http.StatusCreated)
}

func (s *Server) cardChanged(c echo.Context, card *domain.Card, status int) error {
	if err := s.ctrl.CardChanged(card); err != nil {
		return err
	}
	return c.JSON(status, toCardJSON(card))
}

// cardGone drops a card the store no longer has from the board before
// returning err.
func (s *Server) cardGone(id string, err error) error {
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if rmErr := s.ctrl.CardRemoved(id); rmErr != nil {
		s.logger.Warn("board_card_remove_failed", "card_id", id, "error", rmErr)
	}
	return err
}
