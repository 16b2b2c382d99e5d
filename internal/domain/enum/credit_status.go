package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// CreditStatus represents the settlement state of a credit account
type CreditStatus int

const (
	CreditStatusPending CreditStatus = 0
	CreditStatusPaid    CreditStatus = 1
)

func (s CreditStatus) String() string {
	return [...]string{"pending", "paid"}[s]
}

// ForPending derives the status from a pending balance in cents
func CreditStatusForPending(pending int64) CreditStatus {
	if pending <= 0 {
		return CreditStatusPaid
	}
	return CreditStatusPending
}

// ParseCreditStatus maps a status name to its value
func ParseCreditStatus(s string) (CreditStatus, bool) {
	switch s {
	case "pending":
		return CreditStatusPending, true
	case "paid":
		return CreditStatusPaid, true
	}
	return 0, false
}

func (s CreditStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *CreditStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = CreditStatus(i)
		return nil
	}
	switch str {
	case "pending":
		*s = CreditStatusPending
	case "paid":
		*s = CreditStatusPaid
	}
	return nil
}

func (s CreditStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *CreditStatus) Scan(value interface{}) error {
	if value == nil {
		*s = CreditStatusPending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = CreditStatus(v)
	case int:
		*s = CreditStatus(v)
	}
	return nil
}
