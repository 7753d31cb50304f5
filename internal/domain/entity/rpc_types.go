package entity

// Protocol defines the type for RPC protocols.
type Protocol string

// Constants for known protocols.
const (
	ProtocolHTTP    Protocol = "http"
	ProtocolHTTPS   Protocol = "https"
	ProtocolWS      Protocol = "ws"
	ProtocolWSS     Protocol = "wss"
	ProtocolUnknown Protocol = "unknown"
)

// RPCHealth holds the result of probing a chain's configured RPC endpoint.
type RPCHealth struct {
	Chain           string   `json:"chain"`
	URL             RPCURL   `json:"url"`
	Protocol        Protocol `json:"protocol"`
	IsWorking       bool     `json:"isWorking"`
	ReportedChainID int64    `json:"reportedChainId,omitempty"`
	ChainIDMatches  bool     `json:"chainIdMatches"`
	LatencyMs       *int64   `json:"latencyMs,omitempty"`
	Error           string   `json:"error,omitempty"`
}
