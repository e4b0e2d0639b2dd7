package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxtech-lab/factory-deployer/internal/models"
	"github.com/rxtech-lab/factory-deployer/internal/services"
)

const (
	fixtureArtifact = "../../internal/contracts/testdata/InheritanceFactory.json"
	// first anvil development account
	anvilKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	// nothing listens on port 1
	deadRPC = "http://127.0.0.1:1"
)

// clearEnv blanks every variable the resolver reads. Blank counts as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"RPC_URL", "CORE_TESTNET_RPC_URL", "CHAIN_ID", "PRIVATE_KEY", "COMMISSION_WALLET",
		"CREATION_FEE", "FACTORY_ARTIFACT", "CONFIRMATION_TIMEOUT", "POLL_INTERVAL", "DEPLOYMENTS_DB",
	} {
		t.Setenv(name, "")
	}
}

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	envFile := filepath.Join(t.TempDir(), "missing.env")
	code := run(context.Background(), append([]string{"--env-file", envFile}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunVersion(t *testing.T) {
	code, stdout, _ := execute(t, "--version")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, Version)
	assert.Contains(t, stdout, CommitHash)
}

func TestRunFailures(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		args    []string
		wantErr string
	}{
		{
			name:    "missing private key",
			args:    []string{"--artifact", fixtureArtifact, "--rpc-url", deadRPC},
			wantErr: "credential error",
		},
		{
			name:    "malformed private key",
			env:     map[string]string{"PRIVATE_KEY": "0xdeadbeef"},
			args:    []string{"--artifact", fixtureArtifact, "--rpc-url", deadRPC},
			wantErr: "credential error",
		},
		{
			name:    "fee with too many decimals",
			env:     map[string]string{"PRIVATE_KEY": anvilKey},
			args:    []string{"--artifact", fixtureArtifact, "--rpc-url", deadRPC, "--creation-fee", "0.0000000000000000001"},
			wantErr: "conversion error",
		},
		{
			name:    "invalid commission wallet",
			env:     map[string]string{"PRIVATE_KEY": anvilKey, "COMMISSION_WALLET": "0x123"},
			args:    []string{"--artifact", fixtureArtifact, "--rpc-url", deadRPC},
			wantErr: "invalid address error",
		},
		{
			name:    "unreachable network",
			env:     map[string]string{"PRIVATE_KEY": anvilKey},
			args:    []string{"--artifact", fixtureArtifact, "--rpc-url", deadRPC},
			wantErr: "network error",
		},
		{
			name:    "missing artifact",
			env:     map[string]string{"PRIVATE_KEY": anvilKey},
			args:    []string{"--artifact", filepath.Join("testdata", "missing.json"), "--rpc-url", deadRPC},
			wantErr: "failed to load factory artifact",
		},
		{
			name:    "invalid timeout",
			env:     map[string]string{"PRIVATE_KEY": anvilKey, "CONFIRMATION_TIMEOUT": "-1s"},
			args:    []string{"--artifact", fixtureArtifact},
			wantErr: "invalid deployment config",
		},
		{
			name:    "unexpected argument",
			args:    []string{"extra"},
			wantErr: "unknown command",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			code, stdout, stderr := execute(t, tt.args...)
			assert.Equal(t, 1, code)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, tt.wantErr)
			assert.NotContains(t, stderr, anvilKey[2:])
		})
	}
}

func TestRunRecordsFailureInLedger(t *testing.T) {
	clearEnv(t)
	t.Setenv("PRIVATE_KEY", anvilKey)
	dsn := filepath.Join(t.TempDir(), "ledger.db")

	code, _, _ := execute(t, "--artifact", fixtureArtifact, "--rpc-url", deadRPC, "--db", dsn)
	require.Equal(t, 1, code)

	db, err := services.NewDBService(dsn, nil)
	require.NoError(t, err)
	defer db.Close()

	deployments, err := services.NewDeploymentService(db.GetDB()).ListDeployments()
	require.NoError(t, err)
	require.Len(t, deployments, 1)
	assert.Equal(t, models.TransactionStatusFailed, deployments[0].Status)
	assert.Equal(t, "127.0.0.1:1", deployments[0].RPCHost)
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", deployments[0].DeployerAddress)
	assert.Contains(t, deployments[0].Error, "network error")
}

func TestRunHistory(t *testing.T) {
	t.Run("requires a ledger", func(t *testing.T) {
		clearEnv(t)
		code, _, stderr := execute(t, "history")
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "no deployment ledger configured")
	})

	t.Run("empty ledger", func(t *testing.T) {
		clearEnv(t)
		code, stdout, _ := execute(t, "history", "--db", filepath.Join(t.TempDir(), "ledger.db"))
		assert.Equal(t, 0, code)
		assert.Contains(t, stdout, "No deployments recorded")
	})

	t.Run("lists deployments", func(t *testing.T) {
		clearEnv(t)
		dsn := filepath.Join(t.TempDir(), "ledger.db")
		t.Setenv("DEPLOYMENTS_DB", dsn)

		db, err := services.NewDBService(dsn, nil)
		require.NoError(t, err)
		deploymentService := services.NewDeploymentService(db.GetDB())
		confirmed := &models.Deployment{
			ID:              uuid.New().String(),
			ContractName:    "InheritanceFactory",
			NetworkName:     "core_testnet",
			ChainID:         1114,
			TransactionHash: "0x1111",
			ContractAddress: "0x5FbDB2315678afecb367f032d93F642f64180aa3",
			ConstructorArgs: models.JSON{"creationFee": "10000000000000000"},
			Status:          models.TransactionStatusConfirmed,
			CreatedAt:       time.Now(),
		}
		failed := &models.Deployment{
			ID:           uuid.New().String(),
			ContractName: "InheritanceFactory",
			NetworkName:  "anvil",
			ChainID:      31337,
			Status:       models.TransactionStatusFailed,
			Error:        "network error: estimate gas: insufficient funds",
			CreatedAt:    time.Now().Add(-time.Hour),
		}
		for _, d := range []*models.Deployment{confirmed, failed} {
			require.NoError(t, deploymentService.SaveDeployment(d))
		}
		require.NoError(t, db.Close())

		code, stdout, _ := execute(t, "history")
		assert.Equal(t, 0, code)
		assert.Contains(t, strings.ToUpper(stdout), "TRANSACTION")
		assert.Contains(t, stdout, "0x5FbDB2315678afecb367f032d93F642f64180aa3")
		assert.Contains(t, stdout, "anvil")

		code, stdout, _ = execute(t, "history", "--chain-id", "1114")
		assert.Equal(t, 0, code)
		assert.Contains(t, stdout, "core_testnet")
		assert.NotContains(t, stdout, "anvil")

		code, stdout, _ = execute(t, "history", "0x1111")
		assert.Equal(t, 0, code)
		assert.Contains(t, stdout, confirmed.ID)
		assert.Contains(t, stdout, "creationFee")
		assert.Contains(t, stdout, "10000000000000000")

		code, stdout, _ = execute(t, "history", failed.ID)
		assert.Equal(t, 0, code)
		assert.Contains(t, stdout, "anvil")
		assert.Contains(t, stdout, "insufficient funds")

		code, _, stderr := execute(t, "history", "0xdead")
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "no deployment recorded for 0xdead")
	})
}
