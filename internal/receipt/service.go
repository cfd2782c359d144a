package receipt

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/eXclipsea/QuickReceipt/internal/scanning"
)

// IDGenerator generates unique IDs for receipts
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates uuid v4 IDs
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return uuid.NewString()
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles the capture pipeline and the derived read models
type Service struct {
	store       Store
	scanner     scanning.Scanner
	archive     ImageArchive
	prices      *StorePriceSearch
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(store Store, scanner scanning.Scanner, archive ImageArchive) *Service {
	return &Service{
		store:       store,
		scanner:     scanner,
		archive:     archive,
		prices:      NewStorePriceSearch(),
		idGenerator: &defaultIDGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(store Store, scanner scanning.Scanner, archive ImageArchive, prices *StorePriceSearch, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		store:       store,
		scanner:     scanner,
		archive:     archive,
		prices:      prices,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// ProcessReceipt normalizes a captured image, extracts its fields, and
// appends the resulting record. Nothing is appended when normalization or
// extraction fails; the caller surfaces those as a retry prompt.
func (s *Service) ProcessReceipt(filename string, data []byte, contentType string) (*Receipt, error) {
	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	normalized, err := scanning.Normalize(data, contentType)
	if err != nil {
		slog.Error("Failed to normalize image",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		return nil, fmt.Errorf("normalizing image: %w", err)
	}

	receiptData, err := s.scanner.ScanReceipt(normalized, "image/jpeg")
	if err != nil {
		slog.Error("Failed to scan receipt",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		return nil, fmt.Errorf("scanning receipt: %w", err)
	}

	record := &Receipt{
		ID:           id,
		MerchantName: receiptData.MerchantName,
		Date:         receiptData.Date,
		AmountCents:  ToCents(receiptData.TotalAmount),
		Category:     receiptData.Category,
		Items:        receiptData.Items,
		Location:     receiptData.Location,
		CreatedAt:    now,
	}

	if s.archive != nil {
		if err := s.archive.Save(id, normalized); err != nil {
			// the record is still usable without its archived image
			slog.Warn("Failed to archive image", "id", id, "error", err)
		}
	}

	if err := s.store.Append(record); err != nil {
		// The store keeps the record visible in its session view even when
		// the durable write fails; the failure is still surfaced so the
		// user knows the save did not stick.
		slog.Error("Failed to persist receipt", "id", id, "error", err)
		return nil, fmt.Errorf("persisting receipt: %w", err)
	}

	return record, nil
}

// ListReceipts returns all records, most recent first, for display.
func (s *Service) ListReceipts() ([]*Receipt, error) {
	records, err := s.store.ListAll()
	if err != nil {
		return nil, fmt.Errorf("listing receipts: %w", err)
	}
	out := make([]*Receipt, len(records))
	for i, r := range records {
		out[len(records)-1-i] = r
	}
	return out, nil
}

// Summary computes the analytics rollup at a reference instant.
func (s *Service) Summary(now time.Time) (Summary, error) {
	records, err := s.store.ListAll()
	if err != nil {
		return Summary{}, fmt.Errorf("listing receipts: %w", err)
	}
	return Summarize(records, now), nil
}

// Export renders the store and its analytics into an XLSX workbook and
// returns the date-stamped filename alongside the bytes.
func (s *Service) Export(now time.Time) (string, []byte, error) {
	records, err := s.store.ListAll()
	if err != nil {
		return "", nil, fmt.Errorf("listing receipts: %w", err)
	}
	data, err := ExportXLSX(records, Summarize(records, now))
	if err != nil {
		return "", nil, fmt.Errorf("exporting receipts: %w", err)
	}
	return ExportFilename(now), data, nil
}

// GetReceiptImage retrieves the archived normalized capture for a record.
func (s *Service) GetReceiptImage(id string) ([]byte, error) {
	if s.archive == nil {
		return nil, fmt.Errorf("no image archive configured")
	}
	data, err := s.archive.Get(id)
	if err != nil {
		return nil, fmt.Errorf("getting receipt image: %w", err)
	}
	return data, nil
}

// SearchStorePrices runs the mock price-comparison search.
func (s *Service) SearchStorePrices(ctx context.Context, item string) ([]StorePrice, error) {
	return s.prices.Search(ctx, item)
}
