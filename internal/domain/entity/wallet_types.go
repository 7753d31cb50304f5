package entity

// WalletState is the observable state of the wallet service.
type WalletState struct {
	Account   string `json:"account,omitempty"`
	ChainID   int64  `json:"chainId,omitempty"`
	Connected bool   `json:"connected"`
	LastError string `json:"lastError,omitempty"`
}
