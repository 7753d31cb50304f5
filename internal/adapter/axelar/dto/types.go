package axelar_dto

import "encoding/json"

// AssetRaw is one entry of the Axelar asset list.
type AssetRaw struct {
	Denom     string                     `json:"denom"`
	Denoms    []string                   `json:"denoms,omitempty"`
	Symbol    string                     `json:"symbol"`
	Name      string                     `json:"name"`
	Decimals  int                        `json:"decimals"`
	Addresses map[string]AssetAddressRaw `json:"addresses,omitempty"`
}

// AssetAddressRaw is an asset's deployment on one chain.
type AssetAddressRaw struct {
	Address string `json:"address"`
	Symbol  string `json:"symbol"`
}

// TransferFeeResponseRaw is the LCD transfer_fee response.
type TransferFeeResponseRaw struct {
	Fee CoinRaw `json:"fee"`
}

// CoinRaw is a Cosmos SDK coin.
type CoinRaw struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

// EstimateGasFeeRequestRaw is the GMP API estimateGasFee request body.
type EstimateGasFeeRequestRaw struct {
	Method                     string `json:"method"`
	SourceChain                string `json:"sourceChain"`
	DestinationChain           string `json:"destinationChain"`
	GasLimit                   uint64 `json:"gasLimit"`
	GasMultiplier              string `json:"gasMultiplier"`
	MinGasPrice                string `json:"minGasPrice"`
	SourceTokenSymbol          string `json:"sourceTokenSymbol,omitempty"`
	ShowDetailedFees           bool   `json:"showDetailedFees"`
	SourceContractAddress      string `json:"sourceContractAddress,omitempty"`
	DestinationContractAddress string `json:"destinationContractAddress,omitempty"`
}

// GasFeeDetailRaw is the structured estimateGasFee response.
type GasFeeDetailRaw struct {
	BaseFee                      json.Number `json:"baseFee"`
	ExecutionFee                 json.Number `json:"executionFee"`
	ExecutionFeeWithMultiplier   json.Number `json:"executionFeeWithMultiplier"`
	L1ExecutionFeeWithMultiplier json.Number `json:"l1ExecutionFeeWithMultiplier,omitempty"`
	GasMultiplier                json.Number `json:"gasMultiplier"`
	Error                        *ErrorRaw   `json:"error,omitempty"`
	Message                      string      `json:"message,omitempty"`
}

// ErrorRaw captures error payloads returned with a 200 status.
type ErrorRaw struct {
	Message string `json:"message"`
}

// UnmarshalJSON accepts `"error": true`, `"error": "text"` and `"error": {"message": ...}`.
func (e *ErrorRaw) UnmarshalJSON(data []byte) error {
	var flag bool
	if err := json.Unmarshal(data, &flag); err == nil {
		if flag {
			e.Message = "error"
		}
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		e.Message = text
		return nil
	}
	type plain ErrorRaw
	return json.Unmarshal(data, (*plain)(e))
}
