package services_test

import (
	"context"
	"time"

	"gate-backend/internal/models"
	"gate-backend/internal/services"
)

// fixedClock pins the current time for deterministic serials and stamps.
type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

// fakeInwardStore implements services.InwardStore with function fields; a
// nil field means the call is unexpected and returns zero values.
type fakeInwardStore struct {
	CreateFn               func(ctx context.Context, entry *models.InwardEntry) error
	ListFn                 func(ctx context.Context) ([]*models.InwardEntry, error)
	ListByUserFn           func(ctx context.Context, userID int) ([]*models.InwardEntry, error)
	ListForExportFn        func(ctx context.Context, createdBy int, date string) ([]*models.InwardEntry, error)
	GetFn                  func(ctx context.Context, id int) (*models.InwardEntry, error)
	SetTimeOutFn           func(ctx context.Context, id int, timeOut string) error
	LastSerialWithPrefixFn func(ctx context.Context, prefix string) (string, error)

	createCalls int
}

func (f *fakeInwardStore) Create(ctx context.Context, entry *models.InwardEntry) error {
	f.createCalls++
	if f.CreateFn != nil {
		return f.CreateFn(ctx, entry)
	}
	return nil
}

func (f *fakeInwardStore) List(ctx context.Context) ([]*models.InwardEntry, error) {
	if f.ListFn != nil {
		return f.ListFn(ctx)
	}
	return nil, nil
}

func (f *fakeInwardStore) ListByUser(ctx context.Context, userID int) ([]*models.InwardEntry, error) {
	if f.ListByUserFn != nil {
		return f.ListByUserFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeInwardStore) ListForExport(ctx context.Context, createdBy int, date string) ([]*models.InwardEntry, error) {
	if f.ListForExportFn != nil {
		return f.ListForExportFn(ctx, createdBy, date)
	}
	return nil, nil
}

func (f *fakeInwardStore) Get(ctx context.Context, id int) (*models.InwardEntry, error) {
	if f.GetFn != nil {
		return f.GetFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeInwardStore) SetTimeOut(ctx context.Context, id int, timeOut string) error {
	if f.SetTimeOutFn != nil {
		return f.SetTimeOutFn(ctx, id, timeOut)
	}
	return nil
}

func (f *fakeInwardStore) LastSerialWithPrefix(ctx context.Context, prefix string) (string, error) {
	if f.LastSerialWithPrefixFn != nil {
		return f.LastSerialWithPrefixFn(ctx, prefix)
	}
	return "", nil
}

// fakeOutwardStore implements services.OutwardStore.
type fakeOutwardStore struct {
	CreateFn               func(ctx context.Context, entry *models.OutwardEntry) error
	UpdateFn               func(ctx context.Context, entryID, userID int, req *models.UpdateOutwardEntryRequest) (*models.OutwardEntry, error)
	ListFn                 func(ctx context.Context) ([]*models.OutwardEntry, error)
	ListByUserFn           func(ctx context.Context, userID int) ([]*models.OutwardEntry, error)
	ListForExportFn        func(ctx context.Context, createdBy int, date string) ([]*models.OutwardEntry, error)
	GetFn                  func(ctx context.Context, id int) (*models.OutwardEntry, error)
	SetTimeOutFn           func(ctx context.Context, id int, timeOut string) error
	LastSerialWithPrefixFn func(ctx context.Context, prefix string) (string, error)

	createCalls int
	updateCalls int
}

func (f *fakeOutwardStore) Create(ctx context.Context, entry *models.OutwardEntry) error {
	f.createCalls++
	if f.CreateFn != nil {
		return f.CreateFn(ctx, entry)
	}
	return nil
}

func (f *fakeOutwardStore) Update(ctx context.Context, entryID, userID int, req *models.UpdateOutwardEntryRequest) (*models.OutwardEntry, error) {
	f.updateCalls++
	if f.UpdateFn != nil {
		return f.UpdateFn(ctx, entryID, userID, req)
	}
	return nil, nil
}

func (f *fakeOutwardStore) List(ctx context.Context) ([]*models.OutwardEntry, error) {
	if f.ListFn != nil {
		return f.ListFn(ctx)
	}
	return nil, nil
}

func (f *fakeOutwardStore) ListByUser(ctx context.Context, userID int) ([]*models.OutwardEntry, error) {
	if f.ListByUserFn != nil {
		return f.ListByUserFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeOutwardStore) ListForExport(ctx context.Context, createdBy int, date string) ([]*models.OutwardEntry, error) {
	if f.ListForExportFn != nil {
		return f.ListForExportFn(ctx, createdBy, date)
	}
	return nil, nil
}

func (f *fakeOutwardStore) Get(ctx context.Context, id int) (*models.OutwardEntry, error) {
	if f.GetFn != nil {
		return f.GetFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeOutwardStore) SetTimeOut(ctx context.Context, id int, timeOut string) error {
	if f.SetTimeOutFn != nil {
		return f.SetTimeOutFn(ctx, id, timeOut)
	}
	return nil
}

func (f *fakeOutwardStore) LastSerialWithPrefix(ctx context.Context, prefix string) (string, error) {
	if f.LastSerialWithPrefixFn != nil {
		return f.LastSerialWithPrefixFn(ctx, prefix)
	}
	return "", nil
}

// fakeBillChecker is a static bill number set.
type fakeBillChecker struct {
	bills map[string]bool
	err   error
}

func (f *fakeBillChecker) HasBillNumber(ctx context.Context, billNumber string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.bills[billNumber], nil
}

func emptyBills() *services.BillService {
	return services.NewBillService(&fakeBillChecker{}, &fakeBillChecker{})
}
