package model

// Transaction represents a single financial transaction handed to the
// classification pipeline by an upstream ingestion service. Amounts are
// signed: negative values are outflows, positive values inflows.
type Transaction struct {
	Metadata     map[string]any `json:"metadata,omitempty"`
	ID           string         `json:"transaction_id"`
	UserID       string         `json:"user_id"`
	Description  string         `json:"description"`
	Merchant     string         `json:"merchant,omitempty"`
	CategoryHint string         `json:"category_hint,omitempty"`
	Amount       float64        `json:"amount"`
}

// TransactionType distinguishes inflows, outflows, and transfers.
type TransactionType string

// Transaction type constants.
const (
	TypeIncome   TransactionType = "income"
	TypeExpense  TransactionType = "expense"
	TypeTransfer TransactionType = "transfer"
)
