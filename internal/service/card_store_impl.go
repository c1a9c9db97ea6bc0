package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alexanderramin/pipeline/internal/db"
	"github.com/alexanderramin/pipeline/internal/domain"
	"github.com/alexanderramin/pipeline/internal/repository"
	"github.com/google/uuid"
)

type cardStore struct {
	cards    repository.CardRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

// NewCardStore returns the SQLite-backed card store. Reads go through cards;
// writes run in a transaction opened by uow.
func NewCardStore(cards repository.CardRepo, uow db.UnitOfWork, observers ...UseCaseObserver) CardStore {
	return &cardStore{
		cards:    cards,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *cardStore) List(ctx context.Context) ([]*domain.Card, error) {
	return s.cards.List(ctx)
}

func (s *cardStore) Get(ctx context.Context, id string) (*domain.Card, error) {
	return s.cards.GetByID(ctx, id)
}

func (s *cardStore) Create(ctx context.Context, d domain.CardDraft) (card *domain.Card, err error) {
	fields := map[string]any{"status": d.Status}
	defer track(ctx, s.observer, "create-card", fields)(&err)

	now := time.Now().UTC()
	card = &domain.Card{
		ID:            uuid.New().String(),
		Title:         strings.TrimSpace(d.Title),
		Description:   d.Description,
		Status:        d.Status,
		Department:    strings.TrimSpace(d.Department),
		Phone:         d.Phone,
		Favorite:      d.Favorite,
		AssignedTo:    d.AssignedTo,
		Collaborators: domain.NormalizeSet(d.Collaborators),
		Labels:        domain.NormalizeSet(d.Labels),
		Observations:  d.Observations,
		Messages:      []domain.Message{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		cols := repository.NewSQLiteColumnRepo(tx)
		if card.Status == "" {
			list, err := cols.List(ctx)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				return domain.Invalid("status", "cannot default: the board has no columns")
			}
			card.Status = list[0].ID
		}
		if err := card.Validate(); err != nil {
			return err
		}
		if err := requireColumn(ctx, cols, card.Status); err != nil {
			return err
		}
		return repository.NewSQLiteCardRepo(tx).Create(ctx, card)
	})
	if err != nil {
		return nil, err
	}
	fields["card_id"] = card.ID
	fields["status"] = card.Status
	return card, nil
}

func (s *cardStore) Update(ctx context.Context, id string, p domain.CardPatch) (card *domain.Card, err error) {
	fields := map[string]any{"card_id": id}
	if p.Status != nil {
		fields["status"] = *p.Status
	}
	defer track(ctx, s.observer, "update-card", fields)(&err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		cards := repository.NewSQLiteCardRepo(tx)
		current, err := cards.GetByID(ctx, id)
		if err != nil {
			return err
		}
		p.Apply(current)
		if err := current.Validate(); err != nil {
			return err
		}
		if p.Status != nil {
			if err := requireColumn(ctx, repository.NewSQLiteColumnRepo(tx), current.Status); err != nil {
				return err
			}
		}
		current.UpdatedAt = laterOf(time.Now().UTC(), current.UpdatedAt)
		if err := cards.Update(ctx, current); err != nil {
			return err
		}
		card = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

func (s *cardStore) Delete(ctx context.Context, id string) (err error) {
	defer track(ctx, s.observer, "delete-card", map[string]any{"card_id": id})(&err)
	return s.cards.Delete(ctx, id)
}

// ToggleFavorite flips the flag inside one transaction, so concurrent
// toggles never read the same value.
func (s *cardStore) ToggleFavorite(ctx context.Context, id string) (card *domain.Card, err error) {
	defer track(ctx, s.observer, "toggle-favorite", map[string]any{"card_id": id})(&err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		cards := repository.NewSQLiteCardRepo(tx)
		current, err := cards.GetByID(ctx, id)
		if err != nil {
			return err
		}
		current.Favorite = !current.Favorite
		current.UpdatedAt = laterOf(time.Now().UTC(), current.UpdatedAt)
		if err := cards.Update(ctx, current); err != nil {
			return err
		}
		card = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

func (s *cardStore) AppendMessage(ctx context.Context, id string, m domain.Message) (card *domain.Card, err error) {
	defer track(ctx, s.observer, "append-message", map[string]any{"card_id": id})(&err)

	if strings.TrimSpace(m.Content) == "" {
		return nil, domain.Invalid("content", "is required")
	}
	if m.Type == "" {
		m.Type = domain.MessageText
	}
	if !m.Type.Valid() {
		return nil, domain.Invalid("type", "must be text, audio, image or file")
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if m.SentAt.IsZero() {
		m.SentAt = now
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		cards := repository.NewSQLiteCardRepo(tx)
		if err := cards.AppendMessage(ctx, id, m, now); err != nil {
			return err
		}
		card, err = cards.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// requireColumn turns a missing column into a validation failure: a card
// may only point at a column that exists.
func requireColumn(ctx context.Context, cols repository.ColumnRepo, id string) error {
	if _, err := cols.GetByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Invalid("status", "references unknown column "+id)
		}
		return err
	}
	return nil
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b.Add(time.Nanosecond)
}
