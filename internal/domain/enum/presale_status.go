package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PreSaleStatus represents the lifecycle status of a pre-sale order
type PreSaleStatus int

const (
	PreSaleStatusPending          PreSaleStatus = 0
	PreSaleStatusPreparing        PreSaleStatus = 1
	PreSaleStatusReadyForDelivery PreSaleStatus = 2
	PreSaleStatusDispatched       PreSaleStatus = 3
	PreSaleStatusPaid             PreSaleStatus = 4
)

func (s PreSaleStatus) String() string {
	return [...]string{"pending", "preparing", "ready_for_delivery", "dispatched", "paid"}[s]
}

// ParsePreSaleStatus maps a status name to its value
func ParsePreSaleStatus(s string) (PreSaleStatus, bool) {
	switch s {
	case "pending":
		return PreSaleStatusPending, true
	case "preparing":
		return PreSaleStatusPreparing, true
	case "ready_for_delivery":
		return PreSaleStatusReadyForDelivery, true
	case "dispatched":
		return PreSaleStatusDispatched, true
	case "paid":
		return PreSaleStatusPaid, true
	}
	return 0, false
}

// IsValid reports whether s is a known status value
func (s PreSaleStatus) IsValid() bool {
	return s >= PreSaleStatusPending && s <= PreSaleStatusPaid
}

// CanTransitionTo reports whether a status change requested through the
// regular status-update path is allowed. The pipeline is linear; orders
// may move freely between the three warehouse-prep statuses, but once
// dispatched the only exit is settlement, which sets paid itself.
func (s PreSaleStatus) CanTransitionTo(target PreSaleStatus) bool {
	if !s.IsValid() || !target.IsValid() || s == target {
		return false
	}
	switch {
	case s >= PreSaleStatusDispatched:
		// dispatched and paid never move through this path
		return false
	case target == PreSaleStatusDispatched:
		// dispatching requires an assigned delivery agent; it goes
		// through the dispatch operation, never a bare status update
		return false
	case target == PreSaleStatusPaid:
		// paid is set exclusively by settlement
		return false
	default:
		return target <= PreSaleStatusReadyForDelivery
	}
}

func (s PreSaleStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PreSaleStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = PreSaleStatus(i)
		return nil
	}
	switch str {
	case "pending":
		*s = PreSaleStatusPending
	case "preparing":
		*s = PreSaleStatusPreparing
	case "ready_for_delivery":
		*s = PreSaleStatusReadyForDelivery
	case "dispatched":
		*s = PreSaleStatusDispatched
	case "paid":
		*s = PreSaleStatusPaid
	}
	return nil
}

func (s PreSaleStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PreSaleStatus) Scan(value interface{}) error {
	if value == nil {
		*s = PreSaleStatusPending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = PreSaleStatus(v)
	case int:
		*s = PreSaleStatus(v)
	}
	return nil
}
