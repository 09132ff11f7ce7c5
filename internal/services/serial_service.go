package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"gate-backend/internal/metrics"
	"gate-backend/internal/timeutil"
)

// SerialKind selects the serial prefix for one of the two registers.
type SerialKind string

const (
	SerialInward  SerialKind = "GE-IN"
	SerialOutward SerialKind = "GE-OUT"
)

// SerialSource is the storage lookup the allocator needs.
type SerialSource interface {
	LastSerialWithPrefix(ctx context.Context, prefix string) (string, error)
}

// SerialService allocates register serial numbers such as
// GE-IN/2024-25/00007. Sequences restart at 1 each financial year.
type SerialService struct {
	clock timeutil.Clock
}

func NewSerialService(clock timeutil.Clock) *SerialService {
	return &SerialService{clock: clock}
}

// FinancialYearLabel renders the Indian financial year containing t,
// e.g. "2024-25" for any date from 1 April 2024 through 31 March 2025.
func FinancialYearLabel(t time.Time) string {
	t = timeutil.ToIST(t)
	startYear := t.Year()
	if t.Month() < time.April {
		startYear--
	}
	return fmt.Sprintf("%d-%02d", startYear, (startYear+1)%100)
}

// NextSerial computes the next serial for the register without claiming
// it. Uniqueness is enforced by the serial column's unique constraint at
// insert time.
func (s *SerialService) NextSerial(ctx context.Context, kind SerialKind, source SerialSource) string {
	now := s.clock.Now()
	fyLabel := FinancialYearLabel(now)
	prefix := fmt.Sprintf("%s/%s/", kind, fyLabel)

	last, err := source.LastSerialWithPrefix(ctx, prefix)
	if err != nil {
		// Degrade to a fresh sequence labelled with the calendar year
		// rather than fail the entry. The unique constraint still
		// rejects collisions.
		log.Printf("[Serial] lookup failed for prefix %s: %v", prefix, err)
		metrics.SerialFallbacksTotal.Inc()
		y := timeutil.ToIST(now).Year()
		return fmt.Sprintf("%s/%d-%02d/%05d", kind, y, (y+1)%100, 1)
	}

	next := 1
	if last != "" {
		if n := trailingNumber(last); n > 0 {
			next = n + 1
		}
	}
	return fmt.Sprintf("%s%05d", prefix, next)
}

// trailingNumber parses the numeric suffix after the final slash.
// Returns 0 when the suffix is missing or not a number.
func trailingNumber(serial string) int {
	idx := strings.LastIndex(serial, "/")
	if idx < 0 || idx == len(serial)-1 {
		return 0
	}
	n, err := strconv.Atoi(serial[idx+1:])
	if err != nil {
		return 0
	}
	return n
}
