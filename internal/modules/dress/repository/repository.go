package repository

import (
	"context"
	"fmt"
	"strings"

	"anoa.com/weddingsalon/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DressRepository interface {
	FindAll(ctx context.Context) ([]*entity.Dress, error)
	Search(ctx context.Context, keyword string) ([]*entity.Dress, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Dress, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Dress, error)
	Save(ctx context.Context, dress *entity.Dress) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// searchTextFormat concatenates the dress and designer columns a keyword may
// hit. NULL columns contribute an empty string. The verb takes the price text.
const searchTextFormat = `COALESCE(dresses.name, '') || ' ' || COALESCE(dresses.style, '') || ' ' ||
	COALESCE(dresses.size, '') || ' ' || COALESCE(dresses.color, '') || ' ' ||
	COALESCE(%s, '') || ' ' || COALESCE(CAST(dresses.arrival_date AS TEXT), '') || ' ' ||
	COALESCE(ds.name, '') || ' ' || COALESCE(ds.contact_info, '')`

// PostgreSQL prints whole doubles without a fraction; SQLite prints "1500.0".
const postgresPriceText = `CASE WHEN dresses.price = TRUNC(dresses.price)
	THEN CAST(CAST(dresses.price AS NUMERIC) AS TEXT) || '.0'
	ELSE CAST(dresses.price AS TEXT) END`

func searchText(dialect string) string {
	if dialect == "postgres" {
		return fmt.Sprintf(searchTextFormat, postgresPriceText)
	}
	return fmt.Sprintf(searchTextFormat, "CAST(dresses.price AS TEXT)")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type dressRepository struct {
	db *gorm.DB
}

func NewDressRepository(db *gorm.DB) DressRepository {
	return &dressRepository{db: db}
}

func (r *dressRepository) FindAll(ctx context.Context) ([]*entity.Dress, error) {
	var dresses []*entity.Dress
	if err := r.db.WithContext(ctx).
		Preload("Designer").
		Order("id").
		Find(&dresses).Error; err != nil {
		return nil, err
	}
	return dresses, nil
}

func (r *dressRepository) Search(ctx context.Context, keyword string) ([]*entity.Dress, error) {
	var dresses []*entity.Dress
	if err := r.db.WithContext(ctx).
		Joins("JOIN designers ds ON ds.id = dresses.designer_id").
		Where("("+searchText(r.db.Dialector.Name())+") LIKE ? ESCAPE '\\'", "%"+likeEscaper.Replace(keyword)+"%").
		Preload("Designer").
		Order("dresses.id").
		Find(&dresses).Error; err != nil {
		return nil, err
	}
	return dresses, nil
}

func (r *dressRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Dress, error) {
	var dress entity.Dress
	if err := r.db.WithContext(ctx).
		Preload("Designer").
		First(&dress, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &dress, nil
}

// FindByIDs returns the dresses in the order of ids, skipping unknown ids.
func (r *dressRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Dress, error) {
	if len(ids) == 0 {
		return []*entity.Dress{}, nil
	}

	var dresses []*entity.Dress
	if err := r.db.WithContext(ctx).
		Preload("Designer").
		Where("id IN ?", ids).
		Find(&dresses).Error; err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*entity.Dress, len(dresses))
	for _, d := range dresses {
		byID[d.ID] = d
	}

	ordered := make([]*entity.Dress, 0, len(ids))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			ordered = append(ordered, d)
		}
	}
	return ordered, nil
}

func (r *dressRepository) Save(ctx context.Context, dress *entity.Dress) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(dress).Error
}

func (r *dressRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Dress{}, "id = ?", id).Error
}
