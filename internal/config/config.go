// Package config loads the node's TOML configuration file via viper, with
// the handful of keys §6 of the spec names as fields of a single struct.
package config

import (
	"fmt"
	"math/big"

	"github.com/spf13/viper"

	"github.com/0glabs/0g-da-node/internal/signerrpc"
)

// Config is the fully resolved set of operator-supplied settings.
type Config struct {
	LogLevel            string `mapstructure:"log_level"`
	EncoderParamsDir    string `mapstructure:"encoder_params_dir"`
	GRPCListenAddress   string `mapstructure:"grpc_listen_address"`
	MaxOngoingSignReq   int32  `mapstructure:"max_ongoing_sign_request"`
	MaxVerifyThreads    int    `mapstructure:"max_verify_threads"`
	SocketAddress       string `mapstructure:"socket_address"`
	EthRPCEndpoint      string `mapstructure:"eth_rpc_endpoint"`
	StartBlockNumber    uint64 `mapstructure:"start_block_number"`
	DAEntranceAddress   string `mapstructure:"da_entrance_address"`
	DASampleAddress     string `mapstructure:"da_sample_address"`
	SignerBLSPrivateKey string `mapstructure:"signer_bls_private_key"`
	SignerEthPrivateKey string `mapstructure:"signer_eth_private_key"`
	MinerEthPrivateKey  string `mapstructure:"miner_eth_private_key"`
	DataPath            string `mapstructure:"data_path"`
	EnableDAS           bool   `mapstructure:"enable_das"`
	DASTest             bool   `mapstructure:"das_test"`
}

// setDefaults fills the optional keys. validate requires eth_rpc_endpoint,
// data_path, da_entrance_address, and signer_bls_private_key; any other key
// without a default is left at its zero value when absent.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("grpc_listen_address", "0.0.0.0:50051")
	v.SetDefault("max_ongoing_sign_request", signerrpc.DefaultMaxOngoingSignRequests)
	v.SetDefault("max_verify_threads", 8)
	v.SetDefault("enable_das", false)
	v.SetDefault("das_test", false)
}

// Load reads and parses the TOML file at path, applying defaults for any
// key the operator did not set and allowing DASIGNER_-prefixed environment
// variables to override individual keys.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("dasigner")
	v.AutomaticEnv()

	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.EthRPCEndpoint == "" {
		return fmt.Errorf("config: eth_rpc_endpoint is required")
	}
	if c.DataPath == "" {
		return fmt.Errorf("config: data_path is required")
	}
	if c.DAEntranceAddress == "" {
		return fmt.Errorf("config: da_entrance_address is required")
	}
	if c.SignerBLSPrivateKey == "" {
		return fmt.Errorf("config: signer_bls_private_key is required")
	}
	return nil
}

// BLSKey parses SignerBLSPrivateKey as a decimal or 0x-prefixed hex Fr
// scalar.
func (c *Config) BLSKey() (*big.Int, error) {
	return parseScalar(c.SignerBLSPrivateKey)
}

func parseScalar(s string) (*big.Int, error) {
	n := new(big.Int)
	base := 10
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		s = s[2:]
		base = 16
	}
	if _, ok := n.SetString(s, base); !ok {
		return nil, fmt.Errorf("config: invalid scalar %q", s)
	}
	return n, nil
}
