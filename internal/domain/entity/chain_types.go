package entity

// Currency defines the native currency details of a chain.
type Currency struct {
	Name     string `json:"name" yaml:"name"`
	Symbol   string `json:"symbol" yaml:"symbol"`
	Decimals int    `json:"decimals" yaml:"decimals"`
}

// Chain represents a blockchain network the application can quote for.
type Chain struct {
	Key            string   `json:"id" yaml:"key"`
	ChainID        int64    `json:"chainId" yaml:"chain_id"`
	Name           string   `json:"name" yaml:"name"`
	Logo           string   `json:"logo,omitempty" yaml:"logo"`
	RPC            RPCURL   `json:"rpcUrl" yaml:"rpc"`
	Explorer       string   `json:"explorerUrl" yaml:"explorer"`
	NativeCurrency Currency `json:"nativeCurrency" yaml:"native_currency"`
	AxelarName     string   `json:"axelarName,omitempty" yaml:"axelar_name"`
	Layer2         bool     `json:"layer2" yaml:"layer2"`
	Enabled        bool     `json:"enabled" yaml:"enabled"`
}

// Token represents a token that can be swapped or bridged.
type Token struct {
	Symbol   string `json:"symbol" yaml:"symbol"`
	Name     string `json:"name" yaml:"name"`
	Icon     string `json:"icon" yaml:"icon"`
	Decimals int    `json:"decimals" yaml:"decimals"`
}
