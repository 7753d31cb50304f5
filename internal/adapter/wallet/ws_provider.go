package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	domainService "swapbridge/internal/domain/service"
	"swapbridge/internal/pkg/apperrors"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Compile-time check
var _ domainService.WalletProvider = (*WSProvider)(nil)

const defaultDialTimeout = 10 * time.Second

var errProviderClosed = errors.New("wallet connection closed")

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

// rpcMessage is either a response (ID set) or a notification (Method set).
type rpcMessage struct {
	ID     *uint64                      `json:"id,omitempty"`
	Method string                       `json:"method,omitempty"`
	Params json.RawMessage              `json:"params,omitempty"`
	Result json.RawMessage              `json:"result,omitempty"`
	Error  *domainService.ProviderError `json:"error,omitempty"`
}

type subscriptionParams struct {
	Subscription string          `json:"subscription"`
	Result       json.RawMessage `json:"result"`
}

// WSProvider speaks EIP-1193 JSON-RPC to a wallet over a websocket.
type WSProvider struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	nextID  atomic.Uint64

	mu      sync.Mutex
	pending map[uint64]chan rpcMessage
	closed  bool

	subs   *subscribers
	done   chan struct{}
	logger *zap.Logger
}

// DialWS connects to a wallet listening on url and starts the read loop.
func DialWS(ctx context.Context, url string, logger *zap.Logger) (*WSProvider, error) {
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: defaultDialTimeout,
	}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to reach wallet at %s: %v", apperrors.ErrExternalServiceFailure, url, err)
	}

	p := &WSProvider{
		conn:    conn,
		pending: make(map[uint64]chan rpcMessage),
		subs:    newSubscribers(),
		done:    make(chan struct{}),
		logger:  logger.Named("WSWalletProvider"),
	}
	go p.readLoop()
	p.logger.Info("Connected to wallet", zap.String("url", url))
	return p, nil
}

// Request sends a JSON-RPC call and waits for its response or ctx.
func (p *WSProvider) Request(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}
	id := p.nextID.Add(1)
	ch := make(chan rpcMessage, 1)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, &domainService.ProviderError{Code: domainService.CodeDisconnected, Message: errProviderClosed.Error()}
	}
	p.pending[id] = ch
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		delete(p.pending, id)
		p.mu.Unlock()
	}()

	p.writeMu.Lock()
	if deadline, ok := ctx.Deadline(); ok {
		_ = p.conn.SetWriteDeadline(deadline)
	} else {
		_ = p.conn.SetWriteDeadline(time.Time{})
	}
	err := p.conn.WriteJSON(rpcRequest{JSONRPC: "2.0", ID: id, Method: method, Params: params})
	p.writeMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to send %s to wallet: %v", apperrors.ErrExternalServiceFailure, method, err)
	}

	p.logger.Debug("Sent wallet request", zap.String("method", method), zap.Uint64("id", id))

	select {
	case msg, ok := <-ch:
		if !ok {
			return nil, &domainService.ProviderError{Code: domainService.CodeDisconnected, Message: errProviderClosed.Error()}
		}
		if msg.Error != nil {
			return nil, msg.Error
		}
		return msg.Result, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: wallet request %s: %v", apperrors.ErrTimeout, method, ctx.Err())
	}
}

// Subscribe registers fn for a provider event.
func (p *WSProvider) Subscribe(event string, fn func(json.RawMessage)) func() {
	return p.subs.add(event, fn)
}

// Close shuts the connection; pending requests fail with a disconnect error.
func (p *WSProvider) Close() error {
	p.writeMu.Lock()
	_ = p.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	p.writeMu.Unlock()
	err := p.conn.Close()
	<-p.done
	return err
}

func (p *WSProvider) readLoop() {
	defer close(p.done)
	defer p.shutdown()

	for {
		var msg rpcMessage
		if err := p.conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				p.logger.Debug("Wallet read loop stopped", zap.Error(err))
			}
			return
		}

		if msg.ID != nil {
			p.mu.Lock()
			ch, ok := p.pending[*msg.ID]
			p.mu.Unlock()
			if ok {
				// the slot is taken when a wallet repeats a response id
				select {
				case ch <- msg:
				default:
					p.logger.Warn("Dropping duplicate wallet response", zap.Uint64("id", *msg.ID))
				}
			} else {
				p.logger.Warn("Dropping wallet response with unknown id", zap.Uint64("id", *msg.ID))
			}
			continue
		}

		if msg.Method != "" {
			p.dispatch(msg)
		}
	}
}

// dispatch handles both direct event notifications ({"method":"chainChanged","params":"0x89"})
// and subscription envelopes ({"method":"eth_subscription","params":{"subscription":...,"result":...}}).
func (p *WSProvider) dispatch(msg rpcMessage) {
	event, payload := msg.Method, msg.Params
	if msg.Method == "eth_subscription" {
		var sub subscriptionParams
		if err := json.Unmarshal(msg.Params, &sub); err != nil {
			p.logger.Warn("Malformed wallet subscription notification", zap.Error(err))
			return
		}
		event, payload = sub.Subscription, sub.Result
	}
	p.logger.Debug("Wallet event", zap.String("event", event))
	p.subs.emit(event, payload)
}

func (p *WSProvider) shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	for id, ch := range p.pending {
		close(ch)
		delete(p.pending, id)
	}
	p.mu.Unlock()

	p.subs.emit(domainService.EventDisconnect, json.RawMessage(`null`))
}
