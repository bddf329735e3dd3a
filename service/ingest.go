package service

import (
	"context"
	"errors"
	"time"

	"hearthbutler/apperr"
	"hearthbutler/entity"
	"hearthbutler/extractor"
	"hearthbutler/logger"

	"go.uber.org/zap"
)

// foodMatcher resolves receipt line names against the food catalog.
type foodMatcher interface {
	FindOrCreateByName(ctx context.Context, name string) (*entity.Food, error)
}

// itemCreator is the tracker slice receipt ingestion needs.
type itemCreator interface {
	CreateInventoryItem(ctx context.Context, input entity.InventoryItem) (*entity.InventoryItem, error)
}

// ReceiptIngestor turns a grocery receipt PDF into inventory items.
type ReceiptIngestor struct {
	foods   foodMatcher
	tracker itemCreator
	parse   func(path string) (*extractor.Receipt, error)
	now     func() time.Time
}

func NewReceiptIngestor(foods foodMatcher, tracker itemCreator) *ReceiptIngestor {
	return &ReceiptIngestor{
		foods:   foods,
		tracker: tracker,
		parse:   extractor.ParseReceipt,
		now:     time.Now,
	}
}

// IngestReport summarises one receipt import.
type IngestReport struct {
	Store   string                 `json:"store"`
	Created []entity.InventoryItem `json:"created"`
	Skipped []string               `json:"skipped,omitempty"`
}

// ImportReceipt parses the receipt at path and creates one inventory item
// per recognised line for the given owner. Lines that fail to resolve or
// persist are skipped and reported rather than failing the whole import.
func (s *ReceiptIngestor) ImportReceipt(ctx context.Context, ownerID uint, path string, location entity.StorageLocation) (*IngestReport, error) {
	if ownerID == 0 {
		return nil, apperr.Validation("owner_id", "must be set")
	}

	receipt, err := s.parse(path)
	if err != nil {
		return nil, apperr.Validation("receipt", "unreadable: "+err.Error())
	}
	if len(receipt.Lines) == 0 {
		return nil, apperr.Validation("receipt", "no purchase lines recognised")
	}

	report := &IngestReport{Store: receipt.Store}
	purchased := s.now()

	for _, line := range receipt.Lines {
		food, err := s.foods.FindOrCreateByName(ctx, line.Name)
		if err != nil {
			logger.Warn("receipt line skipped: food lookup failed",
				zap.String("name", line.Name), zap.Error(err))
			report.Skipped = append(report.Skipped, line.Name)
			continue
		}

		item := entity.InventoryItem{
			OwnerID:          ownerID,
			FoodID:           food.ID,
			Name:             line.Name,
			Quantity:         line.Count * line.PackSize,
			Unit:             line.Unit,
			PurchaseDate:     purchased,
			PurchaseQuantity: line.Count * line.PackSize,
			PurchaseSource:   receipt.Store,
			StorageLocation:  location,
		}
		created, err := s.tracker.CreateInventoryItem(ctx, item)
		if err != nil {
			logger.Warn("receipt line skipped: item create failed",
				zap.String("name", line.Name), zap.Error(err))
			report.Skipped = append(report.Skipped, line.Name)
			continue
		}
		report.Created = append(report.Created, *created)
	}

	if len(report.Created) == 0 {
		return nil, apperr.Persistence("import receipt", errors.New("every line failed"))
	}
	return report, nil
}
