package hooks

import (
	"fmt"

	"github.com/rxtech-lab/factory-deployer/internal/models"
	"github.com/rxtech-lab/factory-deployer/internal/services"
)

// DeploymentLedgerHook persists every deployment run and its final status
type DeploymentLedgerHook struct {
	deploymentService services.DeploymentService
}

// CanHandle implements Hook.
func (h *DeploymentLedgerHook) CanHandle(event models.DeploymentEvent) bool {
	switch event {
	case models.DeploymentEventSubmitted, models.DeploymentEventConfirmed, models.DeploymentEventFailed:
		return true
	default:
		return false
	}
}

// OnDeploymentEvent implements Hook.
func (h *DeploymentLedgerHook) OnDeploymentEvent(event models.DeploymentEvent, deployment models.Deployment) error {
	switch event {
	case models.DeploymentEventSubmitted:
		deployment.Status = models.TransactionStatusPending
	case models.DeploymentEventConfirmed:
		deployment.Status = models.TransactionStatusConfirmed
	case models.DeploymentEventFailed:
		deployment.Status = models.TransactionStatusFailed
	}

	if err := h.deploymentService.SaveDeployment(&deployment); err != nil {
		return fmt.Errorf("failed to record %s deployment %s: %w", event, deployment.ID, err)
	}
	return nil
}

func NewDeploymentLedgerHook(deploymentService services.DeploymentService) services.Hook {
	return &DeploymentLedgerHook{
		deploymentService: deploymentService,
	}
}
