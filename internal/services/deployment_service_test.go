package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/factory-deployer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := NewDBService(":memory:", nil)
	require.NoError(t, err, "Failed to connect to in-memory database")
	t.Cleanup(func() { db.Close() })

	// Enable debug mode to see SQL queries during test
	if testing.Verbose() {
		return db.GetDB().Debug()
	}
	return db.GetDB()
}

func newDeployment(chainID int64, createdAt time.Time) *models.Deployment {
	return &models.Deployment{
		ID:              uuid.New().String(),
		ContractName:    "InheritanceFactory",
		NetworkName:     "core_testnet",
		ChainID:         chainID,
		RPCHost:         "rpc.test2.btcs.network",
		DeployerAddress: "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
		ConstructorArgs: models.JSON{"creationFee": "10000000000000000"},
		Status:          models.TransactionStatusPending,
		CreatedAt:       createdAt,
	}
}

func TestDeploymentService(t *testing.T) {
	db := setupTestDB(t)
	service := NewDeploymentService(db)

	older := newDeployment(1114, time.Now().Add(-time.Hour))
	older.TransactionHash = "0xaaaa"
	newer := newDeployment(1114, time.Now())
	local := newDeployment(31337, time.Now().Add(-time.Minute))

	for _, d := range []*models.Deployment{older, newer, local} {
		require.NoError(t, service.SaveDeployment(d))
	}

	t.Run("GetDeploymentByID", func(t *testing.T) {
		found, err := service.GetDeploymentByID(older.ID)
		require.NoError(t, err)
		assert.Equal(t, older.ID, found.ID)
		assert.Equal(t, "InheritanceFactory", found.ContractName)
		assert.Equal(t, "10000000000000000", found.ConstructorArgs["creationFee"])
	})

	t.Run("GetDeploymentByID not found", func(t *testing.T) {
		_, err := service.GetDeploymentByID(uuid.New().String())
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("ListDeployments newest first", func(t *testing.T) {
		all, err := service.ListDeployments()
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, newer.ID, all[0].ID)
		assert.Equal(t, older.ID, all[2].ID)
	})

	t.Run("ListDeploymentsByChain", func(t *testing.T) {
		core, err := service.ListDeploymentsByChain(1114)
		require.NoError(t, err)
		assert.Len(t, core, 2)

		anvil, err := service.ListDeploymentsByChain(31337)
		require.NoError(t, err)
		require.Len(t, anvil, 1)
		assert.Equal(t, local.ID, anvil[0].ID)
	})

	t.Run("GetDeploymentByTransactionHash", func(t *testing.T) {
		found, err := service.GetDeploymentByTransactionHash("0xaaaa")
		require.NoError(t, err)
		assert.Equal(t, older.ID, found.ID)

		_, err = service.GetDeploymentByTransactionHash("0xbbbb")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("SaveDeployment upserts", func(t *testing.T) {
		fresh := newDeployment(1114, time.Now())
		require.NoError(t, service.SaveDeployment(fresh))

		fresh.Status = models.TransactionStatusFailed
		fresh.Error = "network error: insufficient funds"
		require.NoError(t, service.SaveDeployment(fresh))

		found, err := service.GetDeploymentByID(fresh.ID)
		require.NoError(t, err)
		assert.Equal(t, models.TransactionStatusFailed, found.Status)
		assert.Equal(t, fresh.Error, found.Error)
		assert.WithinDuration(t, fresh.CreatedAt, found.CreatedAt, time.Second)
	})
}
