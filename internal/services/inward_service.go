package services

import (
	"context"
	"fmt"
	"strings"

	"gate-backend/internal/apperrors"
	"gate-backend/internal/metrics"
	"gate-backend/internal/models"
	"gate-backend/internal/timeutil"

	"github.com/shopspring/decimal"
)

// InwardStore is the storage surface the inward register needs.
type InwardStore interface {
	Create(ctx context.Context, entry *models.InwardEntry) error
	List(ctx context.Context) ([]*models.InwardEntry, error)
	ListByUser(ctx context.Context, userID int) ([]*models.InwardEntry, error)
	ListForExport(ctx context.Context, createdBy int, date string) ([]*models.InwardEntry, error)
	Get(ctx context.Context, id int) (*models.InwardEntry, error)
	SetTimeOut(ctx context.Context, id int, timeOut string) error
	LastSerialWithPrefix(ctx context.Context, prefix string) (string, error)
}

// FeedPublisher pushes gate activity to live dashboard clients. A nil
// publisher is allowed and means no feed.
type FeedPublisher interface {
	Publish(event models.GateEvent)
}

type InwardService struct {
	store   InwardStore
	serials *SerialService
	bills   *BillService
	clock   timeutil.Clock
	feed    FeedPublisher
}

func NewInwardService(store InwardStore, serials *SerialService, bills *BillService, clock timeutil.Clock, feed FeedPublisher) *InwardService {
	return &InwardService{
		store:   store,
		serials: serials,
		bills:   bills,
		clock:   clock,
		feed:    feed,
	}
}

// NextSerial previews the serial the next inward entry would receive.
func (s *InwardService) NextSerial(ctx context.Context) string {
	return s.serials.NextSerial(ctx, SerialInward, s.store)
}

// Create validates and records a new inward entry. Time-in is stamped
// with the current IST wall clock, never taken from the client.
func (s *InwardService) Create(ctx context.Context, principal models.Principal, req *models.CreateInwardEntryRequest) (*models.InwardEntry, error) {
	if err := s.bills.CheckAvailable(ctx, req.BillNumber); err != nil {
		return nil, err
	}
	if !models.ValidateMaterials(req.Materials) {
		return nil, apperrors.ErrInvalidMaterial
	}

	now := s.clock.Now()

	serial := req.SerialNumber
	if serial == "" {
		serial = s.serials.NextSerial(ctx, SerialInward, s.store)
	}
	entryDate := req.EntryDate
	if entryDate == "" {
		entryDate = timeutil.ToIST(now).Format(timeutil.DateLayout)
	}

	entry := &models.InwardEntry{
		SerialNumber:   serial,
		EntryDate:      entryDate,
		PartyName:      req.PartyName,
		BillNumber:     req.BillNumber,
		BillAmount:     req.BillAmount,
		EntryType:      req.EntryType,
		VehicleType:    req.VehicleType,
		SourceLocation: req.SourceLocation,
		TimeIn:         timeutil.ClockTime(now),
		Remarks:        req.Remarks,
		CreatedBy:      principal.ID,
		Materials:      req.Materials,
	}

	if err := s.store.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrEntryCreationFailed, err)
	}

	metrics.EntriesCreatedTotal.WithLabelValues("inward").Inc()
	if s.feed != nil {
		s.feed.Publish(models.GateEvent{Kind: "inward", Action: "created", Payload: entry})
	}
	return entry, nil
}

// List returns the entries the principal may see: Users see only their
// own, Admins and Viewers see everything.
func (s *InwardService) List(ctx context.Context, principal models.Principal) ([]*models.InwardEntry, error) {
	if principal.Role == models.RoleUser {
		return s.store.ListByUser(ctx, principal.ID)
	}
	return s.store.List(ctx)
}

// Get fetches one entry, refusing Users access to entries they did not
// create.
func (s *InwardService) Get(ctx context.Context, principal models.Principal, id int) (*models.InwardEntry, error) {
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
func (s *InwardService) SetTimeOut(ctx context.Context, principal models.Principal, id int) (*models.InwardEntry, error) {
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
		s.feed.Publish(models.GateEvent{Kind: "inward", Action: "time_out", Payload: entry})
	}
	return entry, nil
}

// ExportData is a rendered register ready for any output format.
type ExportData struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// ExportRows flattens the register for export. Users export only their
// own entries and may narrow to a single date; Admins and Viewers get
// the full register.
func (s *InwardService) ExportRows(ctx context.Context, principal models.Principal, date string) (*ExportData, error) {
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
		Title: "Inward Gate Register",
		Headers: []string{
			"Serial Number", "Entry Date", "Party Name", "Bill Number",
			"Bill Amount", "Entry Type", "Vehicle Type", "Source Location",
			"Materials", "Time In", "Time Out", "Remarks", "Status",
		},
	}
	for _, e := range entries {
		data.Rows = append(data.Rows, []string{
			e.SerialNumber,
			e.EntryDate,
			e.PartyName,
			e.BillNumber,
			formatBillAmount(e.BillAmount),
			e.EntryType,
			e.VehicleType,
			e.SourceLocation,
			formatMaterials(e.Materials),
			e.TimeIn,
			e.TimeOut,
			e.Remarks,
			entryStatus(e.TimeOut),
		})
	}
	return data, nil
}

func formatMaterials(materials []models.MaterialLine) string {
	lines := make([]string, 0, len(materials))
	for _, m := range materials {
		lines = append(lines, fmt.Sprintf("%s (%s %s)", m.Name, m.Quantity.String(), m.UOM))
	}
	return strings.Join(lines, "\n")
}

func formatBillAmount(amount decimal.NullDecimal) string {
	if !amount.Valid {
		return ""
	}
	return amount.Decimal.StringFixed(2)
}

func entryStatus(timeOut string) string {
	if timeOut != "" {
		return "Completed"
	}
	return "Pending"
}
