package api

// Balance is one member's net position. Positive means the member is owed money.
type Balance struct {
	Member    string `json:"member"`
	PaidCents int64  `json:"paid_cents"`
	OwedCents int64  `json:"owed_cents"`
	NetCents  int64  `json:"net_cents"`
	Net       string `json:"net"`
}

// Transfer is one recommended payment of a settlement plan.
type Transfer struct {
	From        string `json:"from"`
	To          string `json:"to"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
}

// Settlement is a repayment that actually happened.
type Settlement struct {
	ID          string `json:"id"`
	GroupID     string `json:"group_id"`
	From        string `json:"from"`
	To          string `json:"to"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
	Note        string `json:"note,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}

type GetBalancesRequest struct {
	GroupID string `json:"group_id"`
}

type GetBalancesResponse struct {
	Balances []*Balance `json:"balances"`
}

type GetSettlementPlanRequest struct {
	GroupID string `json:"group_id"`
}

type GetSettlementPlanResponse struct {
	Transfers []*Transfer `json:"transfers"`
	// Settled is true when nobody needs to pay anybody.
	Settled bool `json:"settled"`
}

type RecordSettlementRequest struct {
	GroupID string `json:"group_id"`
	From    string `json:"from"`
	To      string `json:"to"`
	Amount  string `json:"amount"`
	Note    string `json:"note,omitempty"`
}

type RecordSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type ListSettlementsRequest struct {
	GroupID string `json:"group_id"`
}

type ListSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
}

type DeleteSettlementRequest struct {
	SettlementID string `json:"settlement_id"`
}

type DeleteSettlementResponse struct{}
