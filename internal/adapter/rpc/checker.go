package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"swapbridge/internal/domain/entity"
	domainService "swapbridge/internal/domain/service"
	"swapbridge/internal/pkg/apperrors"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/websocket"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Compile-time check
var _ domainService.RPCChecker = (*Checker)(nil)

const defaultCheckTimeout = 10 * time.Second

// Checker implements the domainService.RPCChecker interface.
type Checker struct {
	client  *fasthttp.Client
	timeout time.Duration
	logger  *zap.Logger
}

// NewChecker creates a new RPC checker instance.
func NewChecker(timeout time.Duration, logger *zap.Logger) *Checker {
	if timeout <= 0 {
		timeout = defaultCheckTimeout
	}
	return &Checker{
		client:  &fasthttp.Client{ReadTimeout: timeout},
		timeout: timeout,
		logger:  logger.Named("RPCCheckerAdapter"),
	}
}

// checkPayload asks the node which chain it serves.
var checkPayload = []byte(`{"jsonrpc":"2.0","method":"eth_chainId","params":[],"id":1}`)

// JSONRPCResponse defines the basic structure for a JSON-RPC response.
type JSONRPCResponse struct {
	ID      any             `json:"id"`
	Jsonrpc string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *JSONRPCError   `json:"error,omitempty"`
}

// JSONRPCError defines the structure for a JSON-RPC error.
type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// CheckRPC probes rpcURL over its protocol and returns the chain id it reports.
func (c *Checker) CheckRPC(ctx context.Context, rpcURL entity.RPCURL) (int64, time.Duration, error) {
	startTime := time.Now()
	rawURL := rpcURL.String()

	switch rpcURL.Protocol() {
	case entity.ProtocolWS, entity.ProtocolWSS:
		return c.checkWSS(ctx, rawURL, startTime)
	case entity.ProtocolHTTP, entity.ProtocolHTTPS:
		return c.checkHTTP(ctx, rawURL, startTime)
	}

	c.logger.Warn("Skipping check for unsupported protocol", zap.String("url", rawURL))
	return 0, 0, fmt.Errorf("%w: unsupported protocol in URL %s", apperrors.ErrInvalidInput, rawURL)
}

// checkHTTP performs the JSON-RPC check over HTTP/HTTPS.
func (c *Checker) checkHTTP(ctx context.Context, rpcURL string, startTime time.Time) (int64, time.Duration, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(rpcURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(checkPayload)

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		requestTimeout := time.Until(deadline)
		if requestTimeout <= 0 {
			return 0, 0, fmt.Errorf("%w: rpc check deadline already passed", apperrors.ErrTimeout)
		}
		if requestTimeout < timeout {
			timeout = requestTimeout
		}
	}

	requestErr := c.client.DoTimeout(req, resp, timeout)
	latency := time.Since(startTime)

	if requestErr != nil {
		if errors.Is(requestErr, fasthttp.ErrTimeout) {
			c.logger.Debug("HTTP RPC check timed out",
				zap.String("url", rpcURL), zap.Duration("timeout", timeout), zap.Error(requestErr),
			)
			return 0, latency, fmt.Errorf("%w: http request to %s timed out after %v: %v",
				apperrors.ErrTimeout, rpcURL, timeout, requestErr,
			)
		}
		c.logger.Debug("HTTP RPC check request failed", zap.String("url", rpcURL), zap.Error(requestErr))
		return 0, latency, fmt.Errorf("%w: http request to %s failed: %v",
			apperrors.ErrExternalServiceFailure, rpcURL, requestErr,
		)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Debug("HTTP RPC check returned non-OK status",
			zap.String("url", rpcURL), zap.Int("statusCode", resp.StatusCode()),
		)
		return 0, latency, fmt.Errorf("%w: rpc %s returned non-OK http status: %d",
			apperrors.ErrExternalServiceFailure, rpcURL, resp.StatusCode(),
		)
	}

	chainID, err := c.parseChainID(rpcURL, resp.Body())
	return chainID, latency, err
}

// checkWSS performs the JSON-RPC check over WSS/WS.
func (c *Checker) checkWSS(ctx context.Context, rpcURL string, startTime time.Time) (int64, time.Duration, error) {
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: c.timeout,
	}

	conn, _, err := dialer.DialContext(ctx, rpcURL, nil)
	if err != nil {
		c.logger.Debug("WSS dial failed", zap.String("url", rpcURL), zap.Error(err))
		return 0, time.Since(startTime), wsError(ctx, "dial to "+rpcURL, err)
	}
	defer conn.Close()

	operationTimeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < operationTimeout {
		operationTimeout = time.Until(deadline)
	}
	if operationTimeout <= 0 {
		operationTimeout = 2 * time.Second
	}

	_ = conn.SetWriteDeadline(time.Now().Add(operationTimeout))
	_ = conn.SetReadDeadline(time.Now().Add(operationTimeout))

	if wErr := conn.WriteMessage(websocket.TextMessage, checkPayload); wErr != nil {
		c.logger.Debug("WSS write message failed", zap.String("url", rpcURL), zap.Error(wErr))
		return 0, time.Since(startTime), wsError(ctx, "write to "+rpcURL, wErr)
	}

	_, message, rErr := conn.ReadMessage()
	latency := time.Since(startTime)
	if rErr != nil {
		c.logger.Debug("WSS read message failed", zap.String("url", rpcURL), zap.Error(rErr))
		return 0, latency, wsError(ctx, "read from "+rpcURL, rErr)
	}

	chainID, err := c.parseChainID(rpcURL, message)
	return chainID, latency, err
}

func wsError(ctx context.Context, op string, err error) error {
	var netErr interface{ Timeout() bool }
	if errors.Is(context.Cause(ctx), context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: wss %s timed out: %v", apperrors.ErrTimeout, op, err)
	}
	return fmt.Errorf("%w: wss %s failed: %v", apperrors.ErrExternalServiceFailure, op, err)
}

// parseChainID validates a JSON-RPC response and decodes its hex quantity result.
func (c *Checker) parseChainID(rpcURL string, body []byte) (int64, error) {
	var rpcResp JSONRPCResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		c.logger.Debug("RPC check failed to unmarshal JSON response",
			zap.String("url", rpcURL), zap.ByteString("body", body), zap.Error(err),
		)
		return 0, fmt.Errorf("%w: rpc %s returned invalid JSON response: %v",
			apperrors.ErrExternalServiceFailure, rpcURL, err,
		)
	}

	if rpcResp.Error != nil {
		c.logger.Debug("RPC check returned JSON-RPC error",
			zap.String("url", rpcURL),
			zap.Int("errorCode", rpcResp.Error.Code),
			zap.String("errorMessage", rpcResp.Error.Message),
		)
		return 0, fmt.Errorf("%w: rpc %s returned json-rpc error: %d %s",
			apperrors.ErrExternalServiceFailure, rpcURL, rpcResp.Error.Code, rpcResp.Error.Message,
		)
	}

	var quantity string
	if rpcResp.Jsonrpc != "2.0" || json.Unmarshal(rpcResp.Result, &quantity) != nil {
		return 0, fmt.Errorf("%w: rpc %s returned invalid JSON-RPC structure",
			apperrors.ErrExternalServiceFailure, rpcURL,
		)
	}

	chainID, err := hexutil.DecodeUint64(strings.TrimSpace(quantity))
	if err != nil {
		return 0, fmt.Errorf("%w: rpc %s returned malformed chain id %q: %v",
			apperrors.ErrExternalServiceFailure, rpcURL, quantity, err,
		)
	}
	return int64(chainID), nil
}
