package services

import "github.com/rxtech-lab/factory-deployer/internal/models"

// Hook is used to perform actions when a deployment run reaches a new step
type Hook interface {
	// CanHandle is used to check if the hook can handle the event
	CanHandle(event models.DeploymentEvent) bool
	// OnDeploymentEvent receives a snapshot of the run at the time of the event
	OnDeploymentEvent(event models.DeploymentEvent, deployment models.Deployment) error
}
