package models

// Requests for screener HTTP endpoints. Defined in domain for consistency and reuse.

type HistoryRequest struct {
	Ticker string `query:"ticker" json:"ticker" validate:"required"`
	From   string `query:"from" json:"from"`
	To     string `query:"to" json:"to"`
	Limit  int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=5000"`
}
