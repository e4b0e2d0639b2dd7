package models

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusConfirmed TransactionStatus = "confirmed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// DeploymentEvent marks a step of a deployment run that hooks can react to
type DeploymentEvent string

const (
	// DeploymentEventSubmitted fires once the creation transaction was accepted by the node
	DeploymentEventSubmitted DeploymentEvent = "submitted"
	DeploymentEventConfirmed DeploymentEvent = "confirmed"
	// DeploymentEventFailed fires for any failure, before or after submission
	DeploymentEventFailed DeploymentEvent = "failed"
)
