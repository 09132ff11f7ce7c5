package services

import (
	"context"

	"gate-backend/internal/apperrors"
)

// BillChecker reports whether a register already holds a bill number.
type BillChecker interface {
	HasBillNumber(ctx context.Context, billNumber string) (bool, error)
}

// BillService enforces bill number uniqueness across both registers. An
// inward bill and an outward bill may never share a number.
type BillService struct {
	inward  BillChecker
	outward BillChecker
}

func NewBillService(inward, outward BillChecker) *BillService {
	return &BillService{inward: inward, outward: outward}
}

// CheckAvailable returns apperrors.ErrDuplicateBill when the bill number
// exists in either register. An empty bill number is always available.
func (s *BillService) CheckAvailable(ctx context.Context, billNumber string) error {
	if billNumber == "" {
		return nil
	}

	inInward, err := s.inward.HasBillNumber(ctx, billNumber)
	if err != nil {
		return err
	}
	if inInward {
		return apperrors.ErrDuplicateBill
	}

	inOutward, err := s.outward.HasBillNumber(ctx, billNumber)
	if err != nil {
		return err
	}
	if inOutward {
		return apperrors.ErrDuplicateBill
	}
	return nil
}
