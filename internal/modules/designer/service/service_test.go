package service

import (
	"context"
	"io"
	"testing"

	"anoa.com/weddingsalon/internal/entity"
	"anoa.com/weddingsalon/internal/modules/designer/dto"
	"anoa.com/weddingsalon/internal/modules/designer/repository"
	"anoa.com/weddingsalon/internal/testutil"
	"anoa.com/weddingsalon/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeIndex struct {
	indexed []*entity.Dress
	deleted []uuid.UUID
}

func (f *fakeIndex) IndexDress(d *entity.Dress) error {
	f.indexed = append(f.indexed, d)
	return nil
}

func (f *fakeIndex) DeleteDresses(ids []uuid.UUID) error {
	f.deleted = append(f.deleted, ids...)
	return nil
}

func (f *fakeIndex) SearchDressIDs(ctx context.Context, query string, limit int64) ([]uuid.UUID, error) {
	return nil, nil
}

type fakeStorage struct{ deleted []string }

func (f *fakeStorage) UploadImage(ctx context.Context, r io.Reader, fileName string) (string, error) {
	return "", nil
}

func (f *fakeStorage) DeleteImage(ctx context.Context, fileURL string) error {
	f.deleted = append(f.deleted, fileURL)
	return nil
}

type fakeStats struct{ invalidations int }

func (f *fakeStats) Invalidate(ctx context.Context) { f.invalidations++ }

type fakeEvents struct{ types []string }

func (f *fakeEvents) Publish(ctx context.Context, eventType string, id uuid.UUID) {
	f.types = append(f.types, eventType)
}

func strPtr(s string) *string { return &s }

func newService(t *testing.T) (DesignerService, *gorm.DB, *fakeIndex, *fakeStorage, *fakeStats, *fakeEvents) {
	t.Helper()
	db := testutil.NewDB(t)
	index, store, stats, events := &fakeIndex{}, &fakeStorage{}, &fakeStats{}, &fakeEvents{}
	svc := NewDesignerService(repository.NewDesignerRepository(db), index, store, stats, events)
	return svc, db, index, store, stats, events
}

func TestSave_InsertAndUpdate(t *testing.T) {
	svc, _, _, _, stats, events := newService(t)
	ctx := context.Background()

	created, err := svc.Save(ctx, dto.SaveDesignerInput{Name: " Vera Wang ", ContactInfo: strPtr("vera@wang.com")})
	require.NoError(t, err)
	assert.Equal(t, "Vera Wang", created.Name)

	updated, err := svc.Save(ctx, dto.SaveDesignerInput{ID: created.ID.String(), Name: "Vera Wang Bridal"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	stored, err := svc.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Vera Wang Bridal", stored.Name)
	assert.Nil(t, stored.ContactInfo)
	assert.Equal(t, created.CreatedAt.Unix(), stored.CreatedAt.Unix())

	all, err := svc.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	assert.Equal(t, 2, stats.invalidations)
	assert.Equal(t, []string{"designer.saved", "designer.saved"}, events.types)
}

func TestSave_RenameReindexesDresses(t *testing.T) {
	svc, db, index, _, _, _ := newService(t)
	ctx := context.Background()

	designer, err := svc.Save(ctx, dto.SaveDesignerInput{Name: "Old"})
	require.NoError(t, err)
	other, err := svc.Save(ctx, dto.SaveDesignerInput{Name: "Other"})
	require.NoError(t, err)

	gown := &entity.Dress{Name: "Gown", DesignerID: designer.ID}
	require.NoError(t, db.Create(gown).Error)
	require.NoError(t, db.Create(&entity.Dress{Name: "Veil", DesignerID: other.ID}).Error)
	assert.Empty(t, index.indexed)

	_, err = svc.Save(ctx, dto.SaveDesignerInput{ID: designer.ID.String(), Name: "New", ContactInfo: strPtr("new@atelier.com")})
	require.NoError(t, err)

	require.Len(t, index.indexed, 1)
	reindexed := index.indexed[0]
	assert.Equal(t, gown.ID, reindexed.ID)
	require.NotNil(t, reindexed.Designer)
	assert.Equal(t, "New", reindexed.Designer.Name)
	assert.Equal(t, "new@atelier.com", *reindexed.Designer.ContactInfo)
}

func TestSave_Rejected(t *testing.T) {
	svc, db, _, _, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, dto.SaveDesignerInput{Name: "<script></script>"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = svc.Save(ctx, dto.SaveDesignerInput{ID: uuid.NewString(), Name: "Ghost"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	var n int64
	require.NoError(t, db.Model(&entity.Designer{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestDelete_CascadesToDresses(t *testing.T) {
	svc, db, index, store, stats, _ := newService(t)
	ctx := context.Background()

	designer, err := svc.Save(ctx, dto.SaveDesignerInput{Name: "Pronovias"})
	require.NoError(t, err)
	other, err := svc.Save(ctx, dto.SaveDesignerInput{Name: "Vera Wang"})
	require.NoError(t, err)

	const n = 3
	var ids []uuid.UUID
	for i := 0; i < n; i++ {
		d := &entity.Dress{Name: "Gown", DesignerID: designer.ID}
		if i == 0 {
			d.PhotoURL = strPtr("https://res.cloudinary.com/demo/image/upload/v1/dresses/gown.webp")
		}
		require.NoError(t, db.Create(d).Error)
		ids = append(ids, d.ID)
	}
	require.NoError(t, db.Create(&entity.Dress{Name: "Kept", DesignerID: other.ID}).Error)

	require.NoError(t, svc.Delete(ctx, designer.ID))

	var remaining []entity.Dress
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "Kept", remaining[0].Name)

	_, err = svc.FindByID(ctx, designer.ID)
	assert.ErrorIs(t, err, ErrDesignerNotFound)

	assert.ElementsMatch(t, ids, index.deleted)
	assert.Len(t, store.deleted, 1)
	assert.Equal(t, 3, stats.invalidations)
}

func TestDelete_UnknownIsSilent(t *testing.T) {
	svc, _, _, _, stats, events := newService(t)

	assert.NoError(t, svc.Delete(context.Background(), uuid.New()))
	assert.Zero(t, stats.invalidations)
	assert.Empty(t, events.types)
}

func TestNilIntegrations(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewDesignerService(repository.NewDesignerRepository(db), nil, nil, nil, nil)
	ctx := context.Background()

	designer, err := svc.Save(ctx, dto.SaveDesignerInput{Name: "Jenny Packham"})
	require.NoError(t, err)
	require.NoError(t, db.Create(&entity.Dress{Name: "Gown", DesignerID: designer.ID}).Error)

	assert.NoError(t, svc.Delete(ctx, designer.ID))
}
