package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Inward entry types.
var InwardEntryTypes = []string{"Cash", "Challan", "Bill", "RGP"}

// InwardEntry is one vehicle/material movement into the facility.
// Serial numbers look like GE-IN/2024-25/00007. Time fields are HH:mm IST
// wall-clock strings; TimeOut stays empty until the vehicle leaves.
type InwardEntry struct {
	ID             int                 `json:"id"`
	SerialNumber   string              `json:"serial_number"`
	EntryDate      string              `json:"entry_date"`
	PartyName      string              `json:"party_name"`
	BillNumber     string              `json:"bill_number,omitempty"`
	BillAmount     decimal.NullDecimal `json:"bill_amount,omitempty"`
	EntryType      string              `json:"entry_type"`
	VehicleType    string              `json:"vehicle_type"`
	SourceLocation string              `json:"source_location"`
	TimeIn         string              `json:"time_in"`
	TimeOut        string              `json:"time_out,omitempty"`
	Remarks        string              `json:"remarks,omitempty"`
	CreatedBy      int                 `json:"created_by"`
	CreatedByName  string              `json:"created_by_name,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	Materials      []MaterialLine      `json:"materials_list"`
}

// CreateInwardEntryRequest represents the request body for creating an
// inward entry. SerialNumber carries the value previously shown to the user
// by the next-serial endpoint; time-in is stamped server-side.
type CreateInwardEntryRequest struct {
	SerialNumber   string              `json:"serial_number"`
	EntryDate      string              `json:"entry_date"`
	PartyName      string              `json:"party_name"`
	BillNumber     string              `json:"bill_number"`
	BillAmount     decimal.NullDecimal `json:"bill_amount"`
	EntryType      string              `json:"entry_type"`
	VehicleType    string              `json:"vehicle_type"`
	SourceLocation string              `json:"source_location"`
	Remarks        string              `json:"remarks"`
	Materials      []MaterialLine      `json:"materials"`
}
