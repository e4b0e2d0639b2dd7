package deployer

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Error kinds. Every error returned by Deploy matches exactly one of them with errors.Is.
var (
	ErrCredential          = errors.New("credential error")
	ErrConversion          = errors.New("conversion error")
	ErrInvalidAddress      = errors.New("invalid address error")
	ErrNetwork             = errors.New("network error")
	ErrConfirmationTimeout = errors.New("confirmation timeout")
	// ErrInvalidConfig rejects a hand-built config before any other step
	ErrInvalidConfig = errors.New("invalid config")
)

// Causes carried inside ErrNetwork
var (
	ErrChainMismatch      = errors.New("signer is not authorized on the target network")
	ErrPendingTransaction = errors.New("signer has an unconfirmed transaction")
	ErrReverted           = errors.New("deployment transaction reverted")
	ErrNoContractAddress  = errors.New("receipt carries no contract address")
)

// DeployError is the failure outcome of a deployment run
type DeployError struct {
	Kind error
	// Op names the step that failed
	Op string
	// TxHash is set once the transaction was submitted
	TxHash common.Hash
	Err    error
}

func (e *DeployError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Op)
	if e.TxHash != (common.Hash{}) {
		msg += fmt.Sprintf(" (tx %s)", e.TxHash.Hex())
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DeployError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, op string, err error) *DeployError {
	return &DeployError{Kind: kind, Op: op, Err: err}
}

func newTxError(kind error, op string, txHash common.Hash, err error) *DeployError {
	return &DeployError{Kind: kind, Op: op, TxHash: txHash, Err: err}
}
