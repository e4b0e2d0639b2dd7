package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/rxtech-lab/factory-deployer/internal/constants"
)

// Configuration keys. Each key is bound to the environment variables listed in NewViper.
const (
	KeyRPCURL              = "rpc_url"
	KeyChainID             = "chain_id"
	KeyPrivateKey          = "private_key"
	KeyCommissionWallet    = "commission_wallet"
	KeyCreationFee         = "creation_fee"
	KeyArtifact            = "artifact"
	KeyConfirmationTimeout = "confirmation_timeout"
	KeyPollInterval        = "poll_interval"
	KeyDatabase            = "database"
)

// DeploymentConfig is resolved once at startup and passed explicitly to the deployer
type DeploymentConfig struct {
	NetworkName string `validate:"required"`
	// RPCURL is passed through as configured; only emptiness is checked
	RPCURL  string `validate:"required"`
	ChainID int64  `validate:"gt=0"`
	// Signer may be empty here. A missing key surfaces when the signer is derived.
	Signer Secret `json:"-"`

	CommissionWallet string `validate:"required"`
	CreationFee      string `validate:"required"`
	ArtifactPath     string `validate:"required"`

	ConfirmationTimeout time.Duration `validate:"gt=0"`
	PollInterval        time.Duration `validate:"gt=0"`

	// DatabaseDSN enables the deployment ledger when set
	DatabaseDSN string
}

// NewViper returns a viper instance with defaults and environment bindings.
// Empty environment variables count as unset, so RPC_URL="" falls back to the default endpoint.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyRPCURL, constants.DefaultRPCURL)
	v.SetDefault(KeyChainID, constants.CoreTestnetChainID)
	v.SetDefault(KeyCommissionWallet, constants.DefaultCommissionWallet)
	v.SetDefault(KeyCreationFee, constants.DefaultCreationFee)
	v.SetDefault(KeyArtifact, constants.DefaultArtifactPath)
	v.SetDefault(KeyConfirmationTimeout, constants.DefaultConfirmationTimeout)
	v.SetDefault(KeyPollInterval, constants.DefaultPollInterval)

	bindings := map[string][]string{
		KeyRPCURL:              {"RPC_URL", "CORE_TESTNET_RPC_URL"},
		KeyChainID:             {"CHAIN_ID"},
		KeyPrivateKey:          {"PRIVATE_KEY"},
		KeyCommissionWallet:    {"COMMISSION_WALLET"},
		KeyCreationFee:         {"CREATION_FEE"},
		KeyArtifact:            {"FACTORY_ARTIFACT"},
		KeyConfirmationTimeout: {"CONFIRMATION_TIMEOUT"},
		KeyPollInterval:        {"POLL_INTERVAL"},
		KeyDatabase:            {"DEPLOYMENTS_DB"},
	}
	for key, envs := range bindings {
		input := append([]string{key}, envs...)
		// BindEnv only fails without a key
		_ = v.BindEnv(input...)
	}

	return v
}

// LoadDotEnv loads a .env file into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Resolve reads every configuration key exactly once and validates the result.
// An absent private key is not an error here.
func Resolve(v *viper.Viper) (DeploymentConfig, error) {
	cfg := DeploymentConfig{
		NetworkName:         constants.NetworkName,
		RPCURL:              v.GetString(KeyRPCURL),
		ChainID:             v.GetInt64(KeyChainID),
		Signer:              NewSecret(v.GetString(KeyPrivateKey)),
		CommissionWallet:    v.GetString(KeyCommissionWallet),
		CreationFee:         v.GetString(KeyCreationFee),
		ArtifactPath:        v.GetString(KeyArtifact),
		ConfirmationTimeout: v.GetDuration(KeyConfirmationTimeout),
		PollInterval:        v.GetDuration(KeyPollInterval),
		DatabaseDSN:         v.GetString(KeyDatabase),
	}

	if cfg.RPCURL == "" {
		cfg.RPCURL = constants.DefaultRPCURL
	}

	if err := cfg.Validate(); err != nil {
		return DeploymentConfig{}, err
	}

	return cfg, nil
}

// Validate checks the struct tags. The signer is not checked.
func (c DeploymentConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid deployment config: %w", err)
	}
	return nil
}

// MarshalLogObject implements zapcore.ObjectMarshaler. The signer is reported only as set or unset.
func (c DeploymentConfig) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("network", c.NetworkName)
	enc.AddString("rpc_url", c.RPCURL)
	enc.AddInt64("chain_id", c.ChainID)
	enc.AddBool("signer_configured", !c.Signer.IsZero())
	enc.AddString("commission_wallet", c.CommissionWallet)
	enc.AddString("creation_fee", c.CreationFee)
	enc.AddString("artifact", c.ArtifactPath)
	enc.AddDuration("confirmation_timeout", c.ConfirmationTimeout)
	enc.AddBool("ledger", c.DatabaseDSN != "")
	return nil
}
