package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"anoa.com/weddingsalon/internal/entity"
	designerRepo "anoa.com/weddingsalon/internal/modules/designer/repository"
	"anoa.com/weddingsalon/internal/modules/dress/dto"
	"anoa.com/weddingsalon/internal/modules/dress/repository"
	notifService "anoa.com/weddingsalon/internal/modules/notification/service"
	search "anoa.com/weddingsalon/internal/modules/search/service"
	"anoa.com/weddingsalon/pkg/apperror"
	commonDto "anoa.com/weddingsalon/pkg/dto"
	"anoa.com/weddingsalon/pkg/sanitize"
	"anoa.com/weddingsalon/pkg/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrDesignerNotFound = apperror.NewFieldError("designer_id", "designer not found", apperror.ErrBadRequest)
	ErrDressNotFound    = fmt.Errorf("dress not found: %w", apperror.ErrNotFound)
)

// StatsInvalidator drops cached statistics after the catalogue changes.
type StatsInvalidator interface {
	Invalidate(ctx context.Context)
}

type DressService interface {
	ListAll(ctx context.Context, keyword string) ([]*entity.Dress, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Dress, error)
	Save(ctx context.Context, input dto.SaveDressInput) (*entity.Dress, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UploadPhoto(ctx context.Context, id uuid.UUID, file commonDto.UploadFile) (*entity.Dress, error)
	FullTextSearch(ctx context.Context, query string, limit int64) ([]*entity.Dress, error)
}

type dressService struct {
	repo         repository.DressRepository
	designerRepo designerRepo.DesignerRepository
	index        search.DressIndex
	imageStorage storage.ImageStorage
	stats        StatsInvalidator
	events       notifService.Publisher
}

// NewDressService wires the dress service. index, imageStorage and stats may be nil.
func NewDressService(
	repo repository.DressRepository,
	designerRepo designerRepo.DesignerRepository,
	index search.DressIndex,
	imageStorage storage.ImageStorage,
	stats StatsInvalidator,
	events notifService.Publisher,
) DressService {
	return &dressService{
		repo:         repo,
		designerRepo: designerRepo,
		index:        index,
		imageStorage: imageStorage,
		stats:        stats,
		events:       events,
	}
}

func (s *dressService) ListAll(ctx context.Context, keyword string) ([]*entity.Dress, error) {
	if keyword != "" {
		return s.repo.Search(ctx, keyword)
	}
	return s.repo.FindAll(ctx)
}

func (s *dressService) FindByID(ctx context.Context, id uuid.UUID) (*entity.Dress, error) {
	dress, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDressNotFound
		}
		return nil, err
	}
	return dress, nil
}

func (s *dressService) Save(ctx context.Context, input dto.SaveDressInput) (*entity.Dress, error) {
	if input.Price != nil && *input.Price < 0 {
		return nil, apperror.NewFieldError("price", "price must not be negative", nil)
	}

	var arrival *time.Time
	if input.ArrivalDate != "" {
		t, err := time.Parse(entity.DateLayout, input.ArrivalDate)
		if err != nil {
			return nil, apperror.NewFieldError("arrival_date", "arrival date must use the YYYY-MM-DD format", nil)
		}
		arrival = &t
	}

	dress := &entity.Dress{}
	if input.ID != "" {
		id, err := uuid.Parse(input.ID)
		if err != nil {
			return nil, apperror.NewFieldError("id", "invalid dress id", nil)
		}
		if dress, err = s.FindByID(ctx, id); err != nil {
			return nil, err
		}
	}

	designer, err := s.resolveDesigner(ctx, input.DesignerID)
	if err != nil {
		return nil, err
	}

	dress.Name = sanitize.Text(input.Name)
	dress.Style = sanitize.Text(input.Style)
	dress.Size = sanitize.Text(input.Size)
	dress.Color = sanitize.Text(input.Color)
	dress.Price = input.Price
	dress.ArrivalDate = arrival
	dress.DesignerID = designer.ID
	dress.Designer = designer

	if err := s.repo.Save(ctx, dress); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, ErrDesignerNotFound
		}
		return nil, err
	}

	s.afterChange(ctx, notifService.EventDressSaved, dress.ID)
	if s.index != nil {
		if err := s.index.IndexDress(dress); err != nil {
			slog.WarnContext(ctx, "failed to index dress", "id", dress.ID, "error", err)
		}
	}

	return dress, nil
}

func (s *dressService) resolveDesigner(ctx context.Context, rawID string) (*entity.Designer, error) {
	if rawID == "" {
		return nil, apperror.NewFieldError("designer_id", "designer is required", nil)
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, ErrDesignerNotFound
	}

	designer, err := s.designerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDesignerNotFound
		}
		return nil, err
	}
	return designer, nil
}

// Delete removes the dress. Unknown ids are ignored.
func (s *dressService) Delete(ctx context.Context, id uuid.UUID) error {
	dress, err := s.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.afterChange(ctx, notifService.EventDressDeleted, id)
	if s.index != nil {
		if err := s.index.DeleteDresses([]uuid.UUID{id}); err != nil {
			slog.WarnContext(ctx, "failed to remove dress from index", "id", id, "error", err)
		}
	}
	s.deletePhoto(ctx, dress.PhotoURL)

	return nil
}

func (s *dressService) UploadPhoto(ctx context.Context, id uuid.UUID, file commonDto.UploadFile) (*entity.Dress, error) {
	if s.imageStorage == nil {
		return nil, apperror.New(http.StatusServiceUnavailable, "photo storage is not configured", apperror.ErrUnavailable)
	}

	dress, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := s.imageStorage.UploadImage(ctx, file.Reader, file.FileName)
	if err != nil {
		return nil, apperror.New(http.StatusBadRequest, "failed to upload photo", fmt.Errorf("%w: %v", apperror.ErrBadRequest, err))
	}

	previous := dress.PhotoURL
	dress.PhotoURL = &url
	if err := s.repo.Save(ctx, dress); err != nil {
		s.deletePhoto(ctx, &url)
		return nil, err
	}

	s.deletePhoto(ctx, previous)
	s.afterChange(ctx, notifService.EventDressSaved, dress.ID)

	return dress, nil
}

func (s *dressService) FullTextSearch(ctx context.Context, query string, limit int64) ([]*entity.Dress, error) {
	if s.index == nil {
		return nil, apperror.New(http.StatusServiceUnavailable, "full-text search is not configured", apperror.ErrUnavailable)
	}
	if limit <= 0 {
		limit = 20
	}

	ids, err := s.index.SearchDressIDs(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByIDs(ctx, ids)
}

func (s *dressService) afterChange(ctx context.Context, eventType string, id uuid.UUID) {
	if s.stats != nil {
		s.stats.Invalidate(ctx)
	}
	if s.events != nil {
		s.events.Publish(ctx, eventType, id)
	}
}

func (s *dressService) deletePhoto(ctx context.Context, url *string) {
	if s.imageStorage == nil || url == nil || *url == "" {
		return
	}
	if err := s.imageStorage.DeleteImage(ctx, *url); err != nil {
		slog.WarnContext(ctx, "failed to delete dress photo", "url", *url, "error", err)
	}
}
