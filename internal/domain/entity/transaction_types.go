package entity

import "time"

// Transaction is a cross-chain transfer record.
type Transaction struct {
	ID               string    `json:"id"`
	TxHash           string    `json:"txHash"`
	SourceChain      string    `json:"sourceChain"`
	DestinationChain string    `json:"destinationChain"`
	Status           string    `json:"status"`
	SimplifiedStatus string    `json:"simplifiedStatus,omitempty"`
	Amount           float64   `json:"amount"`
	Denom            string    `json:"denom"`
	Sender           string    `json:"sender"`
	Recipient        string    `json:"recipient"`
	CreatedAt        time.Time `json:"createdAt"`
	TimeSpent        int64     `json:"timeSpent"`
	Link             string    `json:"link"`
}

// PageRequest selects a window of transfer history.
type PageRequest struct {
	Limit   int    `json:"limit"`
	Offset  int    `json:"offset"`
	Address string `json:"address,omitempty"`
}

// TransactionPage is one page of transfer history.
type TransactionPage struct {
	Transactions []Transaction `json:"transactions"`
	Limit        int           `json:"limit"`
	Offset       int           `json:"offset"`
	HasMore      bool          `json:"hasMore"`
	NextOffset   int           `json:"nextOffset"`
	Availability Availability  `json:"availability"`
}
