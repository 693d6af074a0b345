package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"anoa.com/weddingsalon/internal/entity"
	"anoa.com/weddingsalon/pkg/sanitize"
	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
)

const dressIndex = "dresses"

// DressIndex mirrors the dress catalogue into a typo tolerant full-text index.
type DressIndex interface {
	IndexDress(dress *entity.Dress) error
	DeleteDresses(ids []uuid.UUID) error
	SearchDressIDs(ctx context.Context, query string, limit int64) ([]uuid.UUID, error)
}

type meiliSearchService struct {
	client meilisearch.ServiceManager
}

func NewMeiliSearchService(client meilisearch.ServiceManager) DressIndex {
	s := &meiliSearchService{client: client}
	s.initIndexes()
	return s
}

func (s *meiliSearchService) initIndexes() {
	searchable := []string{"name", "style", "color", "size", "designer_name", "designer_contact"}
	if _, err := s.client.Index(dressIndex).UpdateSearchableAttributes(&searchable); err != nil {
		slog.Warn("failed to update dresses searchable attributes", "error", err)
	}

	sortable := []string{"arrival_date", "price"}
	if _, err := s.client.Index(dressIndex).UpdateSortableAttributes(&sortable); err != nil {
		slog.Warn("failed to update dresses sortable attributes", "error", err)
	}

	slog.Info("meilisearch indexes initialized")
}

type meiliDressDoc struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Style           string   `json:"style"`
	Size            string   `json:"size"`
	Color           string   `json:"color"`
	Price           *float64 `json:"price"`
	PriceText       string   `json:"price_text"`
	ArrivalDate     string   `json:"arrival_date"`
	DesignerID      string   `json:"designer_id"`
	DesignerName    string   `json:"designer_name"`
	DesignerContact string   `json:"designer_contact"`
}

func toDoc(d *entity.Dress) meiliDressDoc {
	doc := meiliDressDoc{
		ID:          d.ID.String(),
		Name:        sanitize.Text(d.Name),
		Style:       sanitize.Text(d.Style),
		Size:        d.Size,
		Color:       sanitize.Text(d.Color),
		Price:       d.Price,
		ArrivalDate: d.ArrivalDay(),
		DesignerID:  d.DesignerID.String(),
	}
	if d.Price != nil {
		doc.PriceText = strconv.FormatFloat(*d.Price, 'f', -1, 64)
	}
	if d.Designer != nil {
		doc.DesignerName = d.Designer.Name
		if d.Designer.ContactInfo != nil {
			doc.DesignerContact = *d.Designer.ContactInfo
		}
	}
	return doc
}

func (s *meiliSearchService) IndexDress(dress *entity.Dress) error {
	task, err := s.client.Index(dressIndex).AddDocuments([]meiliDressDoc{toDoc(dress)}, strPtr("id"))
	if err != nil {
		return fmt.Errorf("index dress %s: %w", dress.ID, err)
	}
	slog.Debug("indexed dress", "id", dress.ID, "task_uid", task.TaskUID)
	return nil
}

func (s *meiliSearchService) DeleteDresses(ids []uuid.UUID) error {
	for _, id := range ids {
		if _, err := s.client.Index(dressIndex).DeleteDocument(id.String()); err != nil {
			return fmt.Errorf("delete dress %s from index: %w", id, err)
		}
	}
	return nil
}

func (s *meiliSearchService) SearchDressIDs(ctx context.Context, query string, limit int64) ([]uuid.UUID, error) {
	raw, err := s.client.Index(dressIndex).SearchRaw(query, &meilisearch.SearchRequest{
		Limit:                limit,
		AttributesToRetrieve: []string{"id"},
	})
	if err != nil {
		return nil, fmt.Errorf("search dresses: %w", err)
	}

	return parseHitIDs(*raw)
}

func parseHitIDs(raw []byte) ([]uuid.UUID, error) {
	var result struct {
		Hits []struct {
			ID string `json:"id"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(result.Hits))
	for _, hit := range result.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			// stale document from an older schema
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func strPtr(s string) *string {
	return &s
}
