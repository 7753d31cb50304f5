package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "swapbridge", cfg.App.Name)
	assert.Equal(t, 60*time.Second, cfg.Cache.GetFreshness())
	assert.Equal(t, 2, cfg.Retry.MaxAttempts)
	assert.Equal(t, uint64(300000), cfg.Axelar.GasLimit)
	assert.Equal(t, 720*time.Hour, cfg.Axelarscan.Window)
	assert.Equal(t, int64(1), cfg.Wallet.DefaultChain)
	assert.Equal(t, 10*time.Minute, cfg.Checker.GetCheckInterval())
	assert.Equal(t, 4, cfg.Checker.MaxWorkers)
	assert.Equal(t, 20*time.Second, cfg.Server.RequestTimeout)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SWAPBRIDGE_SERVER_PORT", "9090")
	t.Setenv("SWAPBRIDGE_LOGGER_LEVEL", "debug")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestLoad_WalletKeyEnv(t *testing.T) {
	t.Setenv("SWAPBRIDGE_WALLET_KEY", "0xabc")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "0xabc", cfg.Wallet.PrivateKey)
}

func TestSubgraphConfig_Endpoint(t *testing.T) {
	cfg := SubgraphConfig{
		GatewayURL: "https://gateway.example/api/",
		APIKey:     "key",
		SubgraphID: "sub",
		PolygonURL: "https://polygon.example/graph",
	}

	tests := []struct {
		network string
		want    string
		ok      bool
	}{
		{"ethereum", "https://gateway.example/api/key/subgraphs/id/sub", true},
		{"Polygon", "https://polygon.example/graph", true},
		{"avalanche", "", false},
		{"not-a-chain", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.network, func(t *testing.T) {
			got, ok := cfg.Endpoint(tt.network)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
