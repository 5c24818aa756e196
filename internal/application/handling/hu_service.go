package handling

import (
	"context"
	"errors"

	"github.com/google/uuid"
	docapp "github.com/wms/backend/internal/application/document"
	"github.com/wms/backend/internal/domain/document"
	"github.com/wms/backend/internal/domain/handling"
	"github.com/wms/backend/internal/domain/shared"
)

const maxBatchSize = 1000

// Service manages the handling unit registry.
type Service struct {
	store docapp.Store
}

// NewService creates a handling unit service.
func NewService(store docapp.Store) *Service {
	return &Service{store: store}
}

// Generate registers count new handling units and returns their codes.
// Codes derive from the row identity, so a unit is first inserted with
// a throwaway placeholder and renamed once its ID is known. The whole
// batch commits atomically.
func (s *Service) Generate(ctx context.Context, count int, createdBy string) ([]string, error) {
	if count < 1 || count > maxBatchSize {
		return nil, shared.NewDomainError("INVALID_COUNT", "count must be between 1 and 1000")
	}
	codes := make([]string, 0, count)
	err := s.store.InTransaction(ctx, func(st docapp.Store) error {
		for i := 0; i < count; i++ {
			hu := &handling.Hu{
				Code:      "TMP-" + uuid.NewString(),
				Status:    handling.HuStatusActive,
				CreatedBy: createdBy,
			}
			if err := st.Hus().Create(ctx, hu); err != nil {
				return err
			}
			code := handling.CodeForID(hu.ID)
			if err := st.Hus().UpdateCode(ctx, hu.ID, code); err != nil {
				return err
			}
			codes = append(codes, code)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return codes, nil
}

// List returns units newest first, optionally filtered by a code search.
func (s *Service) List(ctx context.Context, search string, take int) ([]handling.Hu, error) {
	if take <= 0 {
		take = 100
	}
	if take > maxBatchSize {
		take = maxBatchSize
	}
	return s.store.Hus().FindAll(ctx, search, take)
}

// Get returns one unit with its current non-zero contents.
func (s *Service) Get(ctx context.Context, code string) (*handling.Hu, []document.HuStockRow, error) {
	code = handling.NormalizeCode(code)
	hu, err := s.store.Hus().FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, shared.NewDomainError("UNKNOWN_HU", "handling unit not found")
		}
		return nil, nil, err
	}
	contents, err := s.store.Ledger().HuContents(ctx, hu.Code)
	if err != nil {
		return nil, nil, err
	}
	return hu, contents, nil
}

// Close retires a unit from circulation. Its ledger history stays.
func (s *Service) Close(ctx context.Context, code, closedBy, note string) (*handling.Hu, error) {
	code = handling.NormalizeCode(code)
	var hu *handling.Hu
	err := s.store.InTransaction(ctx, func(st docapp.Store) error {
		var err error
		hu, err = st.Hus().FindByCode(ctx, code)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("UNKNOWN_HU", "handling unit not found")
			}
			return err
		}
		hu.Close(closedBy, note)
		return st.Hus().Update(ctx, hu)
	})
	if err != nil {
		return nil, err
	}
	return hu, nil
}

// IsAllowed reports whether a code refers to a usable unit.
func (s *Service) IsAllowed(ctx context.Context, code string) (bool, error) {
	hu, err := s.store.Hus().FindByCode(ctx, handling.NormalizeCode(code))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return hu.Usable(), nil
}
