package service

import (
	"context"
	"fmt"
	"strings"

	app_errors "iris-chat/backend/internal/errors"
	"iris-chat/backend/internal/model"
)

// DraftStore is the part of store.Store that persists drafts.
type DraftStore interface {
	LoadDrafts(ctx context.Context) []model.Draft
	SaveDrafts(ctx context.Context, drafts []model.Draft) error
	NewDraft(content string) model.Draft
}

type DraftService struct {
	store DraftStore
}

func NewDraftService(store DraftStore) *DraftService {
	return &DraftService{store: store}
}

// List returns the persisted drafts.
func (s *DraftService) List(ctx context.Context) []model.Draft {
	return s.store.LoadDrafts(ctx)
}

// Replace overwrites all drafts. Entries without an id are treated as new and
// get an id and creation time; entries with an id keep them.
func (s *DraftService) Replace(ctx context.Context, drafts []model.Draft) ([]model.Draft, error) {
	out := make([]model.Draft, 0, len(drafts))
	for i, d := range drafts {
		if strings.TrimSpace(d.Content) == "" {
			return nil, fmt.Errorf("%w: draft %d has no content", app_errors.ErrValidation, i)
		}
		if d.ID == "" {
			fresh := s.store.NewDraft(d.Content)
			out = append(out, fresh)
			continue
		}
		if d.CreatedAt.IsZero() {
			d.CreatedAt = s.store.NewDraft(d.Content).CreatedAt
		}
		out = append(out, d)
	}

	if err := s.store.SaveDrafts(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}
