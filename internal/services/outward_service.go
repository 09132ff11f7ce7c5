package services

import (
	"context"
	"errors"
	"fmt"

	"gate-backend/internal/apperrors"
	"gate-backend/internal/metrics"
	"gate-backend/internal/models"
	"gate-backend/internal/timeutil"
)

// OutwardStore is the storage surface the outward register needs.
type OutwardStore interface {
	Create(ctx context.Context, entry *models.OutwardEntry) error
	Update(ctx context.Context, entryID, userID int, req *models.UpdateOutwardEntryRequest) (*models.OutwardEntry, error)
	List(ctx context.Context) ([]*models.OutwardEntry, error)
	ListByUser(ctx context.Context, userID int) ([]*models.OutwardEntry, error)
	ListForExport(ctx context.Context, createdBy int, date string) ([]*models.OutwardEntry, error)
	Get(ctx context.Context, id int) (*models.OutwardEntry, error)
	SetTimeOut(ctx context.Context, id int, timeOut string) error
	LastSerialWithPrefix(ctx context.Context, prefix string) (string, error)
}

type OutwardService struct {
	store   OutwardStore
	serials *SerialService
	bills   *BillService
	clock   timeutil.Clock
	feed    FeedPublisher
}

func NewOutwardService(store OutwardStore, serials *SerialService, bills *BillService, clock timeutil.Clock, feed FeedPublisher) *OutwardService {
	return &OutwardService{
		store:   store,
		serials: serials,
		bills:   bills,
		clock:   clock,
		feed:    feed,
	}
}

// NextSerial previews the serial the next outward entry would receive.
func (s *OutwardService) NextSerial(ctx context.Context) string {
	return s.serials.NextSerial(ctx, SerialOutward, s.store)
}

// Create opens an outward entry at the gate. Only the driver, vehicle and
// source are required; commercial fields come later via Update. The serial
// is always generated server-side, and the vehicle number is normalized to
// upper case before it reaches storage.
func (s *OutwardService) Create(ctx context.Context, principal models.Principal, req *models.CreateOutwardEntryRequest) (*models.OutwardEntry, error) {
	if req.DriverMobile == "" || req.DriverName == "" || req.VehicleNumber == "" {
		return nil, apperrors.ErrMissingRequiredFields
	}
	if err := s.bills.CheckAvailable(ctx, req.BillNumber); err != nil {
		return nil, err
	}
	if len(req.Materials) > 0 && !models.ValidateMaterials(req.Materials) {
		return nil, apperrors.ErrInvalidMaterial
	}

	now := s.clock.Now()

	entry := &models.OutwardEntry{
		SerialNumber:  s.serials.NextSerial(ctx, SerialOutward, s.store),
		EntryDate:     timeutil.ToIST(now).Format(timeutil.DateLayout),
		DriverMobile:  req.DriverMobile,
		DriverName:    req.DriverName,
		VehicleNumber: models.NormalizeVehicleNumber(req.VehicleNumber),
		VehicleType:   req.VehicleType,
		Source:        req.Source,
		BillNumber:    req.BillNumber,
		TimeIn:        timeutil.ClockTime(now),
		CreatedBy:     principal.ID,
		Materials:     req.Materials,
	}

	if err := s.store.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrEntryCreationFailed, err)
	}

	metrics.EntriesCreatedTotal.WithLabelValues("outward").Inc()
	if s.feed != nil {
		s.feed.Publish(models.GateEvent{Kind: "outward", Action: "created", Payload: entry})
	}
	return entry, nil
}

// Update fills in or corrects an open entry. Only the creator may update,
// and an entry whose time-out is stamped is locked. Empty scalar fields
// are left unchanged; a non-nil Materials slice replaces the whole list.
func (s *OutwardService) Update(ctx context.Context, principal models.Principal, entryID int, req *models.UpdateOutwardEntryRequest) (*models.OutwardEntry, error) {
	if req.Materials != nil && !models.ValidateMaterials(req.Materials) {
		return nil, apperrors.ErrInvalidMaterial
	}
	if req.BillNumber != "" {
		existing, err := s.store.Get(ctx, entryID)
		if err != nil {
			return nil, err
		}
		if existing.BillNumber != req.BillNumber {
			if err := s.bills.CheckAvailable(ctx, req.BillNumber); err != nil {
				return nil, err
			}
		}
	}

	entry, err := s.store.Update(ctx, entryID, principal.ID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrEditLocked) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrEntryUpdateFailed, err)
	}

	if s.feed != nil {
		s.feed.Publish(models.GateEvent{Kind: "outward", Action: "updated", Payload: entry})
	}
	return entry, nil
}

// List returns the entries the principal may see.
func (s *OutwardService) List(ctx context.Context, principal models.Principal) ([]*models.OutwardEntry, error) {
	if principal.Role == models.RoleUser {
		return s.store.ListByUser(ctx, principal.ID)
	}
	return s.store.List(ctx)
}

// Get fetches one entry under the same visibility rules as List.
func (s *OutwardService) Get(ctx context.Context, principal models.Principal, id int) (*models.OutwardEntry, error) {
	entry, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if principal.Role == models.RoleUser && entry.CreatedBy != principal.ID {
		return nil, apperrors.ErrAccessDenied
	}
	return entry, nil
}

// SetTimeOut stamps the vehicle's departure with the current IST clock.
func (s *OutwardService) SetTimeOut(ctx context.Context, principal models.Principal, id int) (*models.OutwardEntry, error) {
	if _, err := s.Get(ctx, principal, id); err != nil {
		return nil, err
	}
	timeOut := timeutil.ClockTime(s.clock.Now())
	if err := s.store.SetTimeOut(ctx, id, timeOut); err != nil {
		return nil, err
	}
	entry, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.feed != nil {
		s.feed.Publish(models.GateEvent{Kind: "outward", Action: "time_out", Payload: entry})
	}
	return entry, nil
}

// ExportRows flattens the register for export, under the same visibility
// rules as the inward register.
func (s *OutwardService) ExportRows(ctx context.Context, principal models.Principal, date string) (*ExportData, error) {
	createdBy := 0
	if principal.Role == models.RoleUser {
		createdBy = principal.ID
	} else {
		date = ""
	}

	entries, err := s.store.ListForExport(ctx, createdBy, date)
	if err != nil {
		return nil, err
	}

	data := &ExportData{
		Title: "Outward Gate Register",
		Headers: []string{
			"Serial Number", "Entry Date", "Driver Mobile", "Driver Name",
			"Vehicle Number", "Vehicle Type", "Source", "Purpose", "Check By",
			"Party Name", "Bill Number", "Bill Amount", "Materials",
			"Time In", "Time Out", "Remarks", "Status",
		},
	}
	for _, e := range entries {
		data.Rows = append(data.Rows, []string{
			e.SerialNumber,
			e.EntryDate,
			e.DriverMobile,
			e.DriverName,
			e.VehicleNumber,
			e.VehicleType,
			e.Source,
			e.Purpose,
			e.CheckBy,
			e.PartyName,
			e.BillNumber,
			formatBillAmount(e.BillAmount),
			formatMaterials(e.Materials),
			e.TimeIn,
			e.TimeOut,
			e.Remarks,
			entryStatus(e.TimeOut),
		})
	}
	return data, nil
}
