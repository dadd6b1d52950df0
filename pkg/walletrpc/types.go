package walletrpc

// Request and response messages of the wallet service. Business-flow failures
// ride inside responses as {ok:false, error:"CODE"}; transport-level faults
// are reserved for infrastructure failure.

type DepositRequest struct {
	AccountID      string            `json:"account_id"`
	Amount         int64             `json:"amount"`
	IdempotencyKey string            `json:"idempotency_key"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

type DepositResponse struct {
	OK            bool   `json:"ok"`
	Error         string `json:"error,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
	BalanceAfter  int64  `json:"balance_after"`
}

type WithdrawRequest struct {
	AccountID      string `json:"account_id"`
	Amount         int64  `json:"amount"`
	IdempotencyKey string `json:"idempotency_key"`
	Reason         string `json:"reason,omitempty"`
}

type WithdrawResponse struct {
	OK            bool   `json:"ok"`
	Error         string `json:"error,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
	BalanceAfter  int64  `json:"balance_after"`
}

type ReserveForBuyInRequest struct {
	AccountID      string `json:"account_id"`
	TableID        string `json:"table_id"`
	Amount         int64  `json:"amount"`
	IdempotencyKey string `json:"idempotency_key"`
	TimeoutSeconds int64  `json:"timeout_seconds,omitempty"`
}

type ReserveForBuyInResponse struct {
	OK               bool   `json:"ok"`
	Error            string `json:"error,omitempty"`
	ReservationID    string `json:"reservation_id,omitempty"`
	AvailableBalance int64  `json:"available_balance"`
}

type CommitReservationRequest struct {
	ReservationID string `json:"reservation_id"`
}

type CommitReservationResponse struct {
	OK            bool   `json:"ok"`
	Error         string `json:"error,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
	NewBalance    int64  `json:"new_balance"`
}

type ReleaseReservationRequest struct {
	ReservationID string `json:"reservation_id"`
}

type ReleaseReservationResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type GetBalanceRequest struct {
	AccountID string `json:"account_id"`
}

type GetBalanceResponse struct {
	OK               bool   `json:"ok"`
	Error            string `json:"error,omitempty"`
	Balance          int64  `json:"balance"`
	AvailableBalance int64  `json:"available_balance"`
}

type GetLedgerRequest struct {
	AccountID string `json:"account_id"`
	Limit     int32  `json:"limit,omitempty"`
	Cursor    int64  `json:"cursor,omitempty"`
}

type LedgerEntry struct {
	EntryID          string            `json:"entry_id"`
	TransactionID    string            `json:"transaction_id"`
	AccountID        string            `json:"account_id"`
	Type             string            `json:"type"`
	Amount           int64             `json:"amount"`
	BalanceBefore    int64             `json:"balance_before"`
	BalanceAfter     int64             `json:"balance_after"`
	Metadata         map[string]string `json:"metadata,omitempty"`
	TimestampMillis  int64             `json:"timestamp"`
	PreviousChecksum string            `json:"previous_checksum"`
	Checksum         string            `json:"checksum"`
}

type GetLedgerResponse struct {
	OK             bool           `json:"ok"`
	Error          string         `json:"error,omitempty"`
	Entries        []*LedgerEntry `json:"entries"`
	LatestChecksum string         `json:"latest_checksum"`
	NextCursor     int64          `json:"next_cursor,omitempty"`
}
