package config

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimalConfig = `
eth_rpc_endpoint = "http://127.0.0.1:8545"
data_path = "/tmp/dasigner-data"
da_entrance_address = "0x0000000000000000000000000000000000000001"
signer_bls_private_key = "7"
`

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, minimalConfig)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "0.0.0.0:50051", cfg.GRPCListenAddress)
	require.Equal(t, int32(10), cfg.MaxOngoingSignReq)
	require.Equal(t, 8, cfg.MaxVerifyThreads)
	require.False(t, cfg.EnableDAS)
	require.False(t, cfg.DASTest)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, minimalConfig+"\nmax_verify_threads = 16\nenable_das = true\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 16, cfg.MaxVerifyThreads)
	require.True(t, cfg.EnableDAS)
}

func TestLoadRejectsMissingRequiredFields(t *testing.T) {
	path := writeConfig(t, `eth_rpc_endpoint = "http://127.0.0.1:8545"`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, minimalConfig)
	t.Setenv("DASIGNER_GRPC_LISTEN_ADDRESS", "127.0.0.1:9999")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9999", cfg.GRPCListenAddress)
}

func TestBLSKeyParsesDecimalAndHex(t *testing.T) {
	c := &Config{SignerBLSPrivateKey: "42"}
	k, err := c.BLSKey()
	require.NoError(t, err)
	require.Equal(t, big.NewInt(42), k)

	c2 := &Config{SignerBLSPrivateKey: "0x2A"}
	k2, err := c2.BLSKey()
	require.NoError(t, err)
	require.Equal(t, big.NewInt(42), k2)
}

func TestBLSKeyRejectsInvalidScalar(t *testing.T) {
	c := &Config{SignerBLSPrivateKey: "not-a-number"}
	_, err := c.BLSKey()
	require.Error(t, err)
}
