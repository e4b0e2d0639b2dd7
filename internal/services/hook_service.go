package services

import (
	"github.com/rxtech-lab/factory-deployer/internal/models"
)

type HookService interface {
	AddHook(hook Hook) error
	OnDeploymentEvent(event models.DeploymentEvent, deployment models.Deployment) error
}

type hookService struct {
	hooks []Hook
}

func NewHookService() HookService {
	return &hookService{
		hooks: []Hook{},
	}
}

func (h *hookService) AddHook(hook Hook) error {
	h.hooks = append(h.hooks, hook)
	return nil
}

// OnDeploymentEvent calls matching hooks in registration order and stops at the first error
func (h *hookService) OnDeploymentEvent(event models.DeploymentEvent, deployment models.Deployment) error {
	for _, hook := range h.hooks {
		if hook.CanHandle(event) {
			if err := hook.OnDeploymentEvent(event, deployment); err != nil {
				return err
			}
		}
	}
	return nil
}
