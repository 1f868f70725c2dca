package service

import (
	"context"

	"github.com/alexanderramin/velo/internal/domain"
)

type feedbackService struct {
	deps  Deps
	repos repoSet
}

// Add records feedback. When it references a slot, the slot must exist and
// supplies the category if none was given.
func (s *feedbackService) Add(ctx context.Context, f *domain.WorkoutFeedback) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if f.SlotID != nil {
		slot, err := s.repos.slots.GetByID(ctx, *f.SlotID)
		if err != nil {
			return err
		}
		if f.Category == "" {
			f.Category = slot.Category
		}
	}
	if f.ID == "" {
		f.ID = newID()
	}
	f.CreatedAt = s.deps.Clock()
	return s.repos.feedback.Create(ctx, f)
}

func (s *feedbackService) ListRecent(ctx context.Context, limit int) ([]*domain.WorkoutFeedback, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repos.feedback.ListRecent(ctx, limit)
}
