package models

import "time"

// Deployment is one run of the factory deployment. The signer key is never stored.
type Deployment struct {
	ID               string            `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ContractName     string            `gorm:"not null" json:"contract_name"`
	NetworkName      string            `gorm:"not null" json:"network_name"`
	ChainID          int64             `gorm:"not null;index" json:"chain_id"`
	RPCHost          string            `json:"rpc_host"`
	DeployerAddress  string            `gorm:"index" json:"deployer_address"`
	ConstructorArgs  JSON              `gorm:"type:text" json:"constructor_args"` // commissionWallet and creationFee (wei)
	TransactionHash  string            `gorm:"index" json:"transaction_hash"`
	ContractAddress  string            `gorm:"index" json:"contract_address"`
	BlockNumber      uint64            `json:"block_number"`
	GasUsed          uint64            `json:"gas_used"`
	Status           TransactionStatus `gorm:"default:pending" json:"status"` // pending, confirmed, failed
	Error            string            `gorm:"type:text" json:"error,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}
