package services

import (
	"github.com/rxtech-lab/factory-deployer/internal/models"
	"gorm.io/gorm"
)

type DeploymentService interface {
	SaveDeployment(deployment *models.Deployment) error
	GetDeploymentByID(id string) (*models.Deployment, error)
	ListDeployments() ([]models.Deployment, error)
	ListDeploymentsByChain(chainID int64) ([]models.Deployment, error)
	GetDeploymentByTransactionHash(txHash string) (*models.Deployment, error)
}

// DeploymentService keeps the ledger of factory deployment runs
type deploymentService struct {
	db *gorm.DB
}

// NewDeploymentService creates a new DeploymentService
func NewDeploymentService(db *gorm.DB) DeploymentService {
	return &deploymentService{db: db}
}

// SaveDeployment inserts the deployment or overwrites the row with the same ID
func (s *deploymentService) SaveDeployment(deployment *models.Deployment) error {
	return s.db.Save(deployment).Error
}

// GetDeploymentByID returns a deployment by its ID
func (s *deploymentService) GetDeploymentByID(id string) (*models.Deployment, error) {
	var deployment models.Deployment
	err := s.db.Where("id = ?", id).First(&deployment).Error
	if err != nil {
		return nil, err
	}
	return &deployment, nil
}

// ListDeployments returns all deployments, newest first
func (s *deploymentService) ListDeployments() ([]models.Deployment, error) {
	var deployments []models.Deployment
	err := s.db.Order("created_at desc").Find(&deployments).Error
	return deployments, err
}

// ListDeploymentsByChain returns all deployments for a specific chain id
func (s *deploymentService) ListDeploymentsByChain(chainID int64) ([]models.Deployment, error) {
	var deployments []models.Deployment
	err := s.db.Where("chain_id = ?", chainID).Order("created_at desc").Find(&deployments).Error
	return deployments, err
}

// GetDeploymentByTransactionHash returns a deployment by its transaction hash
func (s *deploymentService) GetDeploymentByTransactionHash(txHash string) (*models.Deployment, error) {
	var deployment models.Deployment
	err := s.db.Where("transaction_hash = ?", txHash).First(&deployment).Error
	if err != nil {
		return nil, err
	}
	return &deployment, nil
}
