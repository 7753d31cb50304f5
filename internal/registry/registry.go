// Package registry holds the static chain, token and timing tables compiled into the binary.
package registry

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"swapbridge/internal/domain/entity"

	"gopkg.in/yaml.v3"
)

// Defaults used for chains missing from the timing tables.
const (
	DefaultFinalityMinutes  = 15.0
	DefaultExecutionMinutes = 0.5
)

//go:embed registry.yaml
var embedded []byte

type document struct {
	Chains    []entity.Chain     `yaml:"chains"`
	Tokens    []entity.Token     `yaml:"tokens"`
	Pools     map[string]string  `yaml:"pools"`
	Finality  map[string]float64 `yaml:"finality"`
	Execution map[string]float64 `yaml:"execution"`
	Rollups   []string           `yaml:"rollups"`
	Axelar    axelarDocument     `yaml:"axelar"`
}

type axelarDocument struct {
	ChainNames         map[string]string  `yaml:"chain_names"`
	Denoms             map[string]string  `yaml:"denoms"`
	DefaultDenom       string             `yaml:"default_denom"`
	NativeTokens       map[string]string  `yaml:"native_tokens"`
	DefaultNativeToken string             `yaml:"default_native_token"`
	USDPrices          map[string]float64 `yaml:"usd_prices"`
	FeeL2Chains        []string           `yaml:"fee_l2_chains"`
}

// Registry is an immutable, case-insensitive view over the static tables.
type Registry struct {
	chains      []entity.Chain
	chainByKey  map[string]entity.Chain
	chainByID   map[int64]entity.Chain
	tokens      []entity.Token
	tokenBySym  map[string]entity.Token
	pools       map[string]string
	finality    map[string]float64
	execution   map[string]float64
	rollups     map[string]struct{}
	axelarNames map[string]string
	denoms      map[string]string
	defDenom    string
	natives     map[string]string
	defNative   string
	prices      map[string]float64
	feeL2       map[string]struct{}
}

// Default returns the registry built from the embedded document. It panics
// if the embedded document is malformed, which is a build defect.
func Default() *Registry {
	r, err := Parse(embedded)
	if err != nil {
		panic(fmt.Sprintf("registry: embedded document is invalid: %v", err))
	}
	return r
}

// Parse builds a registry from a YAML document.
func Parse(data []byte) (*Registry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse registry document: %w", err)
	}

	r := &Registry{
		chainByKey:  make(map[string]entity.Chain, len(doc.Chains)),
		chainByID:   make(map[int64]entity.Chain, len(doc.Chains)),
		tokenBySym:  make(map[string]entity.Token, len(doc.Tokens)),
		pools:       lowerKeys(doc.Pools),
		finality:    lowerFloatKeys(doc.Finality),
		execution:   lowerFloatKeys(doc.Execution),
		rollups:     toSet(doc.Rollups),
		axelarNames: lowerKeys(doc.Axelar.ChainNames),
		denoms:      upperKeys(doc.Axelar.Denoms),
		defDenom:    doc.Axelar.DefaultDenom,
		natives:     lowerKeys(doc.Axelar.NativeTokens),
		defNative:   doc.Axelar.DefaultNativeToken,
		prices:      make(map[string]float64, len(doc.Axelar.USDPrices)),
		feeL2:       toSet(doc.Axelar.FeeL2Chains),
	}

	for _, c := range doc.Chains {
		c.Key = entity.NormalizeKey(c.Key)
		if c.Key == "" || c.ChainID <= 0 {
			return nil, fmt.Errorf("registry chain entry %q has no key or chain id", c.Name)
		}
		if _, dup := r.chainByKey[c.Key]; dup {
			return nil, fmt.Errorf("registry chain %q is declared twice", c.Key)
		}
		if c.RPC != "" {
			if _, err := entity.NewRPCURL(c.RPC.String()); err != nil {
				return nil, fmt.Errorf("registry chain %q: %w", c.Key, err)
			}
		}
		r.chains = append(r.chains, c)
		r.chainByKey[c.Key] = c
		r.chainByID[c.ChainID] = c
	}

	for _, t := range doc.Tokens {
		t.Symbol = strings.ToUpper(strings.TrimSpace(t.Symbol))
		if t.Symbol == "" {
			return nil, fmt.Errorf("registry token entry %q has no symbol", t.Name)
		}
		r.tokens = append(r.tokens, t)
		r.tokenBySym[t.Symbol] = t
	}

	for sym, p := range doc.Axelar.USDPrices {
		r.prices[strings.ToUpper(sym)] = p
	}

	return r, nil
}

// Chains returns the chains enabled for quoting, in declaration order.
func (r *Registry) Chains() []entity.Chain {
	out := make([]entity.Chain, 0, len(r.chains))
	for _, c := range r.chains {
		if c.Enabled {
			out = append(out, c)
		}
	}
	return out
}

// AllChains returns every known chain, including disabled ones.
func (r *Registry) AllChains() []entity.Chain {
	out := make([]entity.Chain, len(r.chains))
	copy(out, r.chains)
	return out
}

// Chain looks up a chain by identifier.
func (r *Registry) Chain(key string) (entity.Chain, bool) {
	c, ok := r.chainByKey[entity.NormalizeKey(key)]
	return c, ok
}

// ChainByID looks up a chain by its EVM chain id.
func (r *Registry) ChainByID(id int64) (entity.Chain, bool) {
	c, ok := r.chainByID[id]
	return c, ok
}

// Tokens returns the token list in declaration order.
func (r *Registry) Tokens() []entity.Token {
	out := make([]entity.Token, len(r.tokens))
	copy(out, r.tokens)
	return out
}

// Token looks up a token by symbol.
func (r *Registry) Token(symbol string) (entity.Token, bool) {
	t, ok := r.tokenBySym[strings.ToUpper(strings.TrimSpace(symbol))]
	return t, ok
}

// PoolAddress returns the pool address registered under key (e.g. "ethereum-eth-usdc").
func (r *Registry) PoolAddress(key string) (string, bool) {
	addr, ok := r.pools[entity.NormalizeKey(key)]
	return addr, ok
}

// FinalityMinutes returns the finality time for a chain, or the default for unknown chains.
func (r *Registry) FinalityMinutes(chain string) float64 {
	if v, ok := r.finality[entity.NormalizeKey(chain)]; ok {
		return v
	}
	return DefaultFinalityMinutes
}

// ExecutionMinutes returns the destination execution time for a chain, or the default.
func (r *Registry) ExecutionMinutes(chain string) float64 {
	if v, ok := r.execution[entity.NormalizeKey(chain)]; ok {
		return v
	}
	return DefaultExecutionMinutes
}

// FinalityChains lists every chain named in the finality table, sorted.
func (r *Registry) FinalityChains() []string {
	out := make([]string, 0, len(r.finality))
	for k := range r.finality {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// IsRollup reports whether the chain settles to a parent chain with a challenge or proof window.
func (r *Registry) IsRollup(chain string) bool {
	_, ok := r.rollups[entity.NormalizeKey(chain)]
	return ok
}

// AxelarName maps a chain identifier to the Axelar network's chain name.
// Unmapped chains pass through lower-cased.
func (r *Registry) AxelarName(chain string) string {
	key := entity.NormalizeKey(chain)
	if v, ok := r.axelarNames[key]; ok {
		return v
	}
	return key
}

// Denom returns the static Axelar denomination for a token symbol.
func (r *Registry) Denom(symbol string) string {
	if v, ok := r.denoms[strings.ToUpper(strings.TrimSpace(symbol))]; ok {
		return v
	}
	return r.defDenom
}

// NativeToken returns the native token symbol of a chain.
func (r *Registry) NativeToken(chain string) string {
	if v, ok := r.natives[entity.NormalizeKey(chain)]; ok {
		return v
	}
	return r.defNative
}

// USDPrice returns the static USD price of a token, zero when unknown.
func (r *Registry) USDPrice(symbol string) float64 {
	return r.prices[strings.ToUpper(strings.TrimSpace(symbol))]
}

// IsFeeL2 reports whether gas estimates to the chain carry an L1 execution component.
func (r *Registry) IsFeeL2(chain string) bool {
	_, ok := r.feeL2[entity.NormalizeKey(chain)]
	return ok
}

func lowerKeys(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[entity.NormalizeKey(k)] = v
	}
	return out
}

func upperKeys(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[strings.ToUpper(strings.TrimSpace(k))] = v
	}
	return out
}

func lowerFloatKeys(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[entity.NormalizeKey(k)] = v
	}
	return out
}

func toSet(in []string) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for _, v := range in {
		out[entity.NormalizeKey(v)] = struct{}{}
	}
	return out
}
