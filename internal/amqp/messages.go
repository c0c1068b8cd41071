package amqp

import (
	"encoding/json"
	"time"
)

// RecomputeRequest asks the worker to rebuild one child's ledger.
// It carries only the child id; the worker loads the history itself.
type RecomputeRequest struct {
	ChildID   int64     `json:"childId"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecomputeRequest(childID int64, reason string) *RecomputeRequest {
	return &RecomputeRequest{
		ChildID:   childID,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

func (m *RecomputeRequest) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RecomputeRequestFromJSON(data []byte) (*RecomputeRequest, error) {
	var msg RecomputeRequest
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// BalanceSnapshot is the published result of a recompute: the child's current
// balance and today's movements.
type BalanceSnapshot struct {
	ChildID        int64     `json:"childId"`
	Name           string    `json:"name"`
	CurrentBalance int64     `json:"currentBalance"`
	TodayPositive  int64     `json:"todayPositive"`
	TodayNegative  int64     `json:"todayNegative"`
	TodayExpenses  int64     `json:"todayExpenses"`
	Days           int       `json:"days"`
	AsOf           time.Time `json:"asOf"`
}

func (m *BalanceSnapshot) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BalanceSnapshotFromJSON(data []byte) (*BalanceSnapshot, error) {
	var msg BalanceSnapshot
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
