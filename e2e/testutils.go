package e2e

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/stretchr/testify/require"

	"github.com/rxtech-lab/factory-deployer/internal/config"
	"github.com/rxtech-lab/factory-deployer/internal/contracts"
)

const (
	// Ethereum testnet configuration
	TESTNET_RPC      = "http://localhost:8545"
	TESTNET_CHAIN_ID = 31337 // Anvil default

	// anvil development accounts 0 and 1
	TESTING_PK_1 = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	TESTING_PK_2 = "0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"
)

// TestSetup holds all test infrastructure
type TestSetup struct {
	EthClient *ethclient.Client
	TestKeys  []*TestAccount
	TempDir   string
	t         *testing.T
}

// TestAccount represents a test Ethereum account
type TestAccount struct {
	PrivateKeyHex string
	PrivateKey    *ecdsa.PrivateKey
	Address       common.Address
}

// NewTestSetup creates a complete test environment
func NewTestSetup(t *testing.T) *TestSetup {
	setup := &TestSetup{t: t, TempDir: t.TempDir()}

	// Initialize Ethereum client
	ethClient, err := ethclient.Dial(TESTNET_RPC)
	require.NoError(t, err)
	setup.EthClient = ethClient

	// Initialize test accounts
	setup.initTestAccounts()

	return setup
}

// initTestAccounts creates test accounts from predefined private keys
func (s *TestSetup) initTestAccounts() {
	for _, pkHex := range []string{TESTING_PK_1, TESTING_PK_2} {
		privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(pkHex, "0x"))
		require.NoError(s.t, err)

		s.TestKeys = append(s.TestKeys, &TestAccount{
			PrivateKeyHex: pkHex,
			PrivateKey:    privateKey,
			Address:       crypto.PubkeyToAddress(privateKey.PublicKey),
		})
	}
}

func (s *TestSetup) GetPrimaryTestAccount() *TestAccount {
	return s.TestKeys[0]
}

func (s *TestSetup) GetSecondaryTestAccount() *TestAccount {
	return s.TestKeys[1]
}

// VerifyEthereumConnection checks that the Ethereum testnet is accessible
func (s *TestSetup) VerifyEthereumConnection() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	chainID, err := s.EthClient.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get chain ID: %w", err)
	}

	if chainID.Cmp(big.NewInt(TESTNET_CHAIN_ID)) != 0 {
		return fmt.Errorf("unexpected chain ID: got %s, expected %d", chainID.String(), TESTNET_CHAIN_ID)
	}

	// Check that test accounts have some ETH
	for i, account := range s.TestKeys {
		balance, err := s.EthClient.BalanceAt(ctx, account.Address, nil)
		if err != nil {
			return fmt.Errorf("failed to get balance for account %d: %w", i, err)
		}

		if balance.Sign() == 0 {
			return fmt.Errorf("account %d (%s) has zero balance", i, account.Address.Hex())
		}
	}

	return nil
}

// DeploymentConfig returns a configuration targeting anvil with the given account as signer
func (s *TestSetup) DeploymentConfig(account *TestAccount, artifactPath string) config.DeploymentConfig {
	return config.DeploymentConfig{
		NetworkName:         "anvil",
		RPCURL:              TESTNET_RPC,
		ChainID:             TESTNET_CHAIN_ID,
		Signer:              config.NewSecret(account.PrivateKeyHex),
		CommissionWallet:    s.GetSecondaryTestAccount().Address.Hex(),
		CreationFee:         "0.01",
		ArtifactPath:        artifactPath,
		ConfirmationTimeout: 30 * time.Second,
		PollInterval:        100 * time.Millisecond,
	}
}

// CallContractView calls a view function on a deployed contract
func (s *TestSetup) CallContractView(artifact *contracts.Artifact, address common.Address, functionName string, args ...interface{}) ([]interface{}, error) {
	bound := bind.NewBoundContract(address, artifact.ABI, s.EthClient, s.EthClient, s.EthClient)

	var output []interface{}
	if err := bound.Call(&bind.CallOpts{}, &output, functionName, args...); err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", functionName, err)
	}
	return output, nil
}

// Cleanup properly shuts down all test infrastructure
func (s *TestSetup) Cleanup() {
	if s.EthClient != nil {
		s.EthClient.Close()
	}
}
