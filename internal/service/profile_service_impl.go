package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/velo/internal/db"
	"github.com/alexanderramin/velo/internal/domain"
	"github.com/alexanderramin/velo/internal/repository"
)

type profileService struct {
	deps  Deps
	repos repoSet
}

func (s *profileService) Get(ctx context.Context) (*domain.RiderProfile, error) {
	return s.repos.profiles.Get(ctx)
}

// SetFTP stores a new FTP and re-derives every activity with it, so stored
// stress always reflects the current threshold.
func (s *profileService) SetFTP(ctx context.Context, ftp float64) (profile *domain.RiderProfile, err error) {
	startedAt := s.deps.Clock()
	fields := map[string]any{"ftp": ftp}
	defer func() { observe(ctx, s.deps.Observer, "set-ftp", startedAt, fields, err) }()

	if ftp <= 0 {
		return nil, fmt.Errorf("ftp must be positive, got %.1f: %w", ftp, domain.ErrInvalidProfile)
	}
	err = s.deps.UoW.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newRepoSet(tx)
		p, err := r.profiles.Get(ctx)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if p == nil {
			p = &domain.RiderProfile{}
		}
		p.FTP = ftp
		p.UpdatedAt = startedAt
		if err := r.profiles.Upsert(ctx, p); err != nil {
			return err
		}
		n, err := rederive(ctx, r, ftp, startedAt)
		if err != nil {
			return err
		}
		fields["rederived"] = n
		profile = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.deps.Cache.Invalidate()
	return profile, nil
}

func (s *profileService) SetWeight(ctx context.Context, kg float64) (profile *domain.RiderProfile, err error) {
	startedAt := s.deps.Clock()
	defer func() { observe(ctx, s.deps.Observer, "set-weight", startedAt, map[string]any{"weight_kg": kg}, err) }()

	if kg <= 0 {
		return nil, fmt.Errorf("weight must be positive, got %.1f: %w", kg, domain.ErrInvalidInput)
	}
	err = s.deps.UoW.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newRepoSet(tx)
		p, err := loadProfile(ctx, r)
		if err != nil {
			return err
		}
		p.WeightKg = kg
		p.UpdatedAt = startedAt
		if err := r.profiles.Upsert(ctx, p); err != nil {
			return err
		}
		profile = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}
