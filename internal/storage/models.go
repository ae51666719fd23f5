package storage

import "time"

// Wallet is a user's spendable balance, mirrored from the Supabase wallets
// table.
type Wallet struct {
	ID       int64     `json:"id"`
	UserID   string    `json:"user"`
	Balance  float64   `json:"balance"`
	Cashback float64   `json:"cashback"`
	Updated  time.Time `json:"updated_at"`
}

// DataPlan is a purchasable data bundle. Category separates the "best" and
// "super" plan tables of the upstream schema.
type DataPlan struct {
	ID        int64   `json:"id"`
	Category  string  `json:"category"`
	ServiceID string  `json:"service_id"`
	Network   string  `json:"network"`
	PlanType  string  `json:"plan_type"`
	Bundle    string  `json:"bundle"`
	Price     float64 `json:"price"`
	Duration  string  `json:"duration"`
}

// Beneficiary is a saved recipient phone number. Each user keeps at most ten;
// the least recently used entry is evicted to make room.
type Beneficiary struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user"`
	Phone     string    `json:"phone"`
	Network   string    `json:"network"`
	Frequency int       `json:"frequency"`
	LastUsed  time.Time `json:"last_used"`
}

// GatewayEvent is a processed payment callback. OrderNo is unique so replayed
// callbacks settle at most once.
type GatewayEvent struct {
	OrderNo     string    `json:"order_no"`
	UserID      string    `json:"user"`
	Amount      float64   `json:"amount"`
	Status      string    `json:"status"`
	RawPayload  string    `json:"raw_payload"`
	ProcessedAt time.Time `json:"processed_at"`
}

// VirtualAccount is a gateway-issued collection account tied to a user.
type VirtualAccount struct {
	UserID      string    `json:"user"`
	AccountNo   string    `json:"account_no"`
	AccountName string    `json:"account_name"`
	Reference   string    `json:"reference"`
	CreatedAt   time.Time `json:"created_at"`
}
