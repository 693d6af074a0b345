package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"anoa.com/weddingsalon/internal/entity"
	"anoa.com/weddingsalon/internal/modules/designer/dto"
	"anoa.com/weddingsalon/internal/modules/designer/repository"
	notifService "anoa.com/weddingsalon/internal/modules/notification/service"
	search "anoa.com/weddingsalon/internal/modules/search/service"
	"anoa.com/weddingsalon/pkg/apperror"
	"anoa.com/weddingsalon/pkg/sanitize"
	"anoa.com/weddingsalon/pkg/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrDesignerNotFound = fmt.Errorf("designer not found: %w", apperror.ErrNotFound)

// StatsInvalidator drops cached statistics after the catalogue changes.
type StatsInvalidator interface {
	Invalidate(ctx context.Context)
}

type DesignerService interface {
	FindAll(ctx context.Context) ([]*entity.Designer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Designer, error)
	Save(ctx context.Context, input dto.SaveDesignerInput) (*entity.Designer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type designerService struct {
	repo         repository.DesignerRepository
	index        search.DressIndex
	imageStorage storage.ImageStorage
	stats        StatsInvalidator
	events       notifService.Publisher
}

func NewDesignerService(
	repo repository.DesignerRepository,
	index search.DressIndex,
	imageStorage storage.ImageStorage,
	stats StatsInvalidator,
	events notifService.Publisher,
) DesignerService {
	return &designerService{
		repo:         repo,
		index:        index,
		imageStorage: imageStorage,
		stats:        stats,
		events:       events,
	}
}

func (s *designerService) FindAll(ctx context.Context) ([]*entity.Designer, error) {
	return s.repo.FindAll(ctx)
}

func (s *designerService) FindByID(ctx context.Context, id uuid.UUID) (*entity.Designer, error) {
	designer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDesignerNotFound
		}
		return nil, err
	}
	return designer, nil
}

func (s *designerService) Save(ctx context.Context, input dto.SaveDesignerInput) (*entity.Designer, error) {
	name := sanitize.Text(input.Name)
	if name == "" {
		return nil, apperror.NewFieldError("name", "name is required", nil)
	}

	designer := &entity.Designer{}
	if input.ID != "" {
		id, err := uuid.Parse(input.ID)
		if err != nil {
			return nil, apperror.NewFieldError("id", "invalid designer id", nil)
		}
		if designer, err = s.FindByID(ctx, id); err != nil {
			return nil, err
		}
	}

	designer.Name = name
	designer.ContactInfo = sanitize.OptionalText(input.ContactInfo)

	if err := s.repo.Save(ctx, designer); err != nil {
		return nil, err
	}

	if input.ID != "" {
		s.reindexDresses(ctx, designer.ID)
	}
	s.afterChange(ctx, notifService.EventDesignerSaved, designer.ID)

	return designer, nil
}

// Delete removes the designer together with its dresses. Unknown ids are ignored.
func (s *designerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil
		}
		return err
	}

	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	ids := make([]uuid.UUID, 0, len(removed))
	for _, d := range removed {
		ids = append(ids, d.ID)
		if s.events != nil {
			s.events.Publish(ctx, notifService.EventDressDeleted, d.ID)
		}
		if s.imageStorage != nil && d.PhotoURL != nil && *d.PhotoURL != "" {
			if err := s.imageStorage.DeleteImage(ctx, *d.PhotoURL); err != nil {
				slog.WarnContext(ctx, "failed to delete dress photo", "url", *d.PhotoURL, "error", err)
			}
		}
	}

	if s.index != nil && len(ids) > 0 {
		if err := s.index.DeleteDresses(ids); err != nil {
			slog.WarnContext(ctx, "failed to remove dresses from index", "designer_id", id, "error", err)
		}
	}

	s.afterChange(ctx, notifService.EventDesignerDeleted, id)
	return nil
}

// reindexDresses refreshes the designer fields copied into each indexed dress.
func (s *designerService) reindexDresses(ctx context.Context, designerID uuid.UUID) {
	if s.index == nil {
		return
	}

	dresses, err := s.repo.FindDresses(ctx, designerID)
	if err != nil {
		slog.WarnContext(ctx, "failed to load dresses for reindex", "designer_id", designerID, "error", err)
		return
	}
	for _, d := range dresses {
		if err := s.index.IndexDress(d); err != nil {
			slog.WarnContext(ctx, "failed to reindex dress", "dress_id", d.ID, "error", err)
		}
	}
}

func (s *designerService) afterChange(ctx context.Context, eventType string, id uuid.UUID) {
	if s.stats != nil {
		s.stats.Invalidate(ctx)
	}
	if s.events != nil {
		s.events.Publish(ctx, eventType, id)
	}
}
