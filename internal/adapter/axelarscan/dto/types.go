package axelarscan_dto

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// SearchTransfersRequestRaw is the token/searchTransfers request body.
type SearchTransfersRequestRaw struct {
	FromTime int64  `json:"fromTime"`
	ToTime   int64  `json:"toTime"`
	Size     int    `json:"size"`
	From     int    `json:"from"`
	Address  string `json:"address,omitempty"`
}

// SearchTransfersResponseRaw is the token/searchTransfers response body.
type SearchTransfersResponseRaw struct {
	Data  []TransferRaw `json:"data"`
	Total int           `json:"total"`
}

// TransferRaw is one transfer record. Newer records carry a send and/or link
// object; older ones carry flat top-level fields.
type TransferRaw struct {
	ID               string        `json:"id"`
	Status           string        `json:"status"`
	SimplifiedStatus string        `json:"simplified_status"`
	Send             *SendRaw      `json:"send,omitempty"`
	Link             *LinkRaw      `json:"link,omitempty"`
	TimeSpent        *TimeSpentRaw `json:"time_spent,omitempty"`

	TxHash           string          `json:"tx_hash,omitempty"`
	SourceChain      string          `json:"source_chain,omitempty"`
	DestinationChain string          `json:"destination_chain,omitempty"`
	Asset            string          `json:"asset,omitempty"`
	Amount           FlexFloat       `json:"amount,omitempty"`
	Sender           string          `json:"sender,omitempty"`
	Recipient        string          `json:"recipient,omitempty"`
	CreatedAt        json.RawMessage `json:"created_at,omitempty"`
}

// SendRaw is the source-chain deposit of a transfer.
type SendRaw struct {
	TxHash           string        `json:"txhash"`
	SourceChain      string        `json:"source_chain"`
	DestinationChain string        `json:"destination_chain"`
	Amount           *FlexFloat    `json:"amount"`
	Denom            string        `json:"denom"`
	SenderAddress    string        `json:"sender_address"`
	RecipientAddress string        `json:"recipient_address"`
	CreatedAt        *TimestampRaw `json:"created_at"`
}

// LinkRaw is the deposit-address link of a transfer.
type LinkRaw struct {
	SourceChain      string        `json:"source_chain"`
	DestinationChain string        `json:"destination_chain"`
	SenderAddress    string        `json:"sender_address"`
	RecipientAddress string        `json:"recipient_address"`
	CreatedAt        *TimestampRaw `json:"created_at"`
}

// TimestampRaw is an axelarscan timestamp object.
type TimestampRaw struct {
	MS int64 `json:"ms"`
}

// TimeSpentRaw reports how long a transfer took, in seconds.
type TimeSpentRaw struct {
	Total FlexFloat `json:"total"`
}

// FlexFloat decodes a JSON number or a numeric string.
type FlexFloat float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*f = FlexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}
