package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Outward movement purposes.
var OutwardPurposes = []string{"SALE", "RGP", "NRGP", "Inter Unit Transfer"}

// OutwardEntry is one vehicle/material movement out of the facility. An
// outward entry is opened at the gate with just the driver and vehicle; the
// commercial fields (purpose, party, bill, materials) are filled in by the
// creator before the vehicle leaves and lock once time-out is recorded.
type OutwardEntry struct {
	ID            int                 `json:"id"`
	SerialNumber  string              `json:"serial_number"`
	EntryDate     string              `json:"entry_date"`
	DriverMobile  string              `json:"driver_mobile"`
	DriverName    string              `json:"driver_name"`
	VehicleNumber string              `json:"vehicle_number"`
	VehicleType   string              `json:"vehicle_type"`
	Source        string              `json:"source"`
	Purpose       string              `json:"purpose,omitempty"`
	CheckBy       string              `json:"check_by,omitempty"`
	PartyName     string              `json:"party_name,omitempty"`
	BillNumber    string              `json:"bill_number,omitempty"`
	BillAmount    decimal.NullDecimal `json:"bill_amount,omitempty"`
	TimeIn        string              `json:"time_in"`
	TimeOut       string              `json:"time_out,omitempty"`
	Remarks       string              `json:"remarks,omitempty"`
	CreatedBy     int                 `json:"created_by"`
	CreatedByName string              `json:"created_by_name,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	Materials     []MaterialLine      `json:"materials_list"`
}

// CreateOutwardEntryRequest represents the request body for opening an
// outward entry at the gate. Entry date and time-in are stamped server-side.
type CreateOutwardEntryRequest struct {
	DriverMobile  string         `json:"driver_mobile"`
	DriverName    string         `json:"driver_name"`
	VehicleNumber string         `json:"vehicle_number"`
	VehicleType   string         `json:"vehicle_type"`
	Source        string         `json:"source"`
	BillNumber    string         `json:"bill_number"`
	Materials     []MaterialLine `json:"materials"`
}

// UpdateOutwardEntryRequest represents a sparse update: empty scalar fields
// are left unchanged, and Materials (when non-nil) replaces the whole list.
type UpdateOutwardEntryRequest struct {
	Purpose    string              `json:"purpose"`
	CheckBy    string              `json:"check_by"`
	PartyName  string              `json:"party_name"`
	BillNumber string              `json:"bill_number"`
	BillAmount decimal.NullDecimal `json:"bill_amount"`
	Remarks    string              `json:"remarks"`
	TimeOut    string              `json:"time_out"`
	Materials  []MaterialLine      `json:"materials"`
}
