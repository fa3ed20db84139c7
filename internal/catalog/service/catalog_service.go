package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"china-one/internal/domain"
	apperrors "china-one/internal/errors"
	"china-one/internal/feed"
)

type MenuRepository interface {
	ListCategories(ctx context.Context) ([]domain.MenuCategory, error)
	ListItems(ctx context.Context, categoryID string, availableOnly bool) ([]domain.MenuItem, error)
	FindItemByID(ctx context.Context, id string) (*domain.MenuItem, error)
	Insert(ctx context.Context, item domain.MenuItem) error
	Update(ctx context.Context, item domain.MenuItem) error
	SetAvailability(ctx context.Context, id string, available bool) error
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, e feed.Event) error
}

// CatalogService serves the storefront menu reads and the staff menu
// mutations. Mutations publish menu_items change events so open storefronts
// can refresh.
type CatalogService struct {
	repo      MenuRepository
	publisher EventPublisher
	logger    *zap.Logger
}

func NewCatalogService(repo MenuRepository, publisher EventPublisher, logger *zap.Logger) *CatalogService {
	return &CatalogService{repo: repo, publisher: publisher, logger: logger}
}

func (s *CatalogService) Categories(ctx context.Context) ([]domain.MenuCategory, error) {
	return s.repo.ListCategories(ctx)
}

// Menu returns available items, optionally limited to one category.
func (s *CatalogService) Menu(ctx context.Context, categoryID string) ([]domain.MenuItem, error) {
	return s.repo.ListItems(ctx, categoryID, true)
}

// FullMenu returns every item regardless of availability, for the staff
// management view.
func (s *CatalogService) FullMenu(ctx context.Context) ([]domain.MenuItem, error) {
	return s.repo.ListItems(ctx, "", false)
}

func (s *CatalogService) Item(ctx context.Context, id string) (*domain.MenuItem, error) {
	return s.repo.FindItemByID(ctx, id)
}

func (s *CatalogService) CreateItem(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error) {
	if err := validateItem(item); err != nil {
		return nil, err
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	if err := s.repo.Insert(ctx, item); err != nil {
		return nil, err
	}

	s.publishChange(ctx, feed.EventInsert, item.ID)
	return &item, nil
}

func (s *CatalogService) UpdateItem(ctx context.Context, item domain.MenuItem) error {
	if err := validateItem(item); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return err
	}

	s.publishChange(ctx, feed.EventUpdate, item.ID)
	return nil
}

func (s *CatalogService) SetItemAvailability(ctx context.Context, id string, available bool) error {
	if err := s.repo.SetAvailability(ctx, id, available); err != nil {
		return err
	}

	s.publishChange(ctx, feed.EventUpdate, id)
	return nil
}

func (s *CatalogService) publishChange(ctx context.Context, eventType feed.EventType, itemID string) {
	err := s.publisher.PublishEvent(ctx, feed.Event{
		Table: feed.TableMenuItems,
		Type:  eventType,
		RowID: itemID,
	})
	if err != nil {
		// The row is committed; a missed notification only delays refresh.
		s.logger.Warn("publishing menu change event failed", zap.String("itemId", itemID), zap.Error(err))
	}
}

func validateItem(item domain.MenuItem) error {
	var details []apperrors.ValidationDetail

	if item.Name == "" {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "name is required"})
	}
	if item.CategoryID == "" {
		details = append(details, apperrors.ValidationDetail{Field: "categoryId", Message: "categoryId is required"})
	}
	if item.BasePrice.IsNegative() {
		details = append(details, apperrors.ValidationDetail{Field: "basePrice", Message: "basePrice must be non-negative"})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}
