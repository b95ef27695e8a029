package domain

import (
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"time"
)

// OrderFilter has AND semantics across fields, OR semantics within each field slice
type OrderFilter struct {
	IDs         []uuid.UUID
	CustomerIDs []uuid.UUID
	Statuses    []OrderStatus
	CreatedAt   *TimeRange
}

func (f OrderFilter) Validate() error {
	if len(f.IDs) == 0 && len(f.CustomerIDs) == 0 && len(f.Statuses) == 0 && f.CreatedAt == nil {
		return errors.New("all fields are empty")
	}

	for _, status := range f.Statuses {
		if _, err := ToOrderStatus(string(status)); err != nil {
			return fmt.Errorf("status[%s]: %w", status, err)
		}
	}

	if f.CreatedAt != nil {
		if err := f.CreatedAt.Validate(); err != nil {
			return fmt.Errorf("createdAt: %w", err)
		}
	}

	return nil
}

// Matches reports whether the order satisfies the filter.
func (f OrderFilter) Matches(o Order) bool {
	if len(f.IDs) > 0 && !lo.Contains(f.IDs, o.ID) {
		return false
	}
	if len(f.CustomerIDs) > 0 && !lo.Contains(f.CustomerIDs, o.CustomerID) {
		return false
	}
	if len(f.Statuses) > 0 && !lo.Contains(f.Statuses, o.Status) {
		return false
	}
	if f.CreatedAt != nil && !f.CreatedAt.Contains(o.CreatedAt) {
		return false
	}
	return true
}

type TimeRange struct {
	Before *time.Time
	After  *time.Time
}

func (t TimeRange) Validate() error {
	if t.Before == nil && t.After == nil {
		return errors.New("both Before and After are nil")
	}

	if t.Before != nil && t.After != nil {
		if t.Before.Before(*t.After) {
			return fmt.Errorf("before is before After")
		}
	}

	return nil
}

func (t TimeRange) Contains(ts time.Time) bool {
	if t.After != nil && !ts.After(*t.After) {
		return false
	}
	if t.Before != nil && !ts.Before(*t.Before) {
		return false
	}
	return true
}
