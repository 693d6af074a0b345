package repository

import (
	"context"

	"anoa.com/weddingsalon/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DesignerRepository interface {
	FindAll(ctx context.Context) ([]*entity.Designer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Designer, error)
	Save(ctx context.Context, designer *entity.Designer) error
	FindDresses(ctx context.Context, designerID uuid.UUID) ([]*entity.Dress, error)
	// Delete removes the designer and its dresses in one transaction and
	// returns the dresses that were removed.
	Delete(ctx context.Context, id uuid.UUID) ([]entity.Dress, error)
}

type designerRepository struct {
	db *gorm.DB
}

func NewDesignerRepository(db *gorm.DB) DesignerRepository {
	return &designerRepository{db: db}
}

func (r *designerRepository) FindAll(ctx context.Context) ([]*entity.Designer, error) {
	var designers []*entity.Designer
	if err := r.db.WithContext(ctx).Order("id").Find(&designers).Error; err != nil {
		return nil, err
	}
	return designers, nil
}

func (r *designerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Designer, error) {
	var designer entity.Designer
	if err := r.db.WithContext(ctx).First(&designer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &designer, nil
}

func (r *designerRepository) Save(ctx context.Context, designer *entity.Designer) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(designer).Error
}

// FindDresses returns the designer's dresses with the designer preloaded.
func (r *designerRepository) FindDresses(ctx context.Context, designerID uuid.UUID) ([]*entity.Dress, error) {
	var dresses []*entity.Dress
	if err := r.db.WithContext(ctx).
		Preload("Designer").
		Where("designer_id = ?", designerID).
		Order("id").
		Find(&dresses).Error; err != nil {
		return nil, err
	}
	return dresses, nil
}

func (r *designerRepository) Delete(ctx context.Context, id uuid.UUID) ([]entity.Dress, error) {
	var removed []entity.Dress

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("designer_id = ?", id).Find(&removed).Error; err != nil {
			return err
		}

		if len(removed) > 0 {
			if err := tx.Where("designer_id = ?", id).Delete(&entity.Dress{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&entity.Designer{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}

	return removed, nil
}
