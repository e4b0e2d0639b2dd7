package deployer

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rxtech-lab/factory-deployer/internal/config"
	"github.com/rxtech-lab/factory-deployer/internal/constants"
	"github.com/rxtech-lab/factory-deployer/internal/contracts"
	"github.com/rxtech-lab/factory-deployer/internal/models"
	"github.com/rxtech-lab/factory-deployer/internal/services"
	"github.com/rxtech-lab/factory-deployer/internal/signer"
	"github.com/rxtech-lab/factory-deployer/internal/utils"
)

// Backend is the subset of the JSON-RPC client the deployer talks to.
// *ethclient.Client and the simulated client both satisfy it.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	NonceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (uint64, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

var _ Backend = (*ethclient.Client)(nil)

type Status string

const (
	StatusDeployed Status = "deployed"
	StatusFailed   Status = "failed"
)

// Result is produced exactly once per Deploy call
type Result struct {
	Status          Status
	Address         common.Address
	TransactionHash common.Hash
	Deployer        common.Address
	CreationFee     *big.Int
	BlockNumber     uint64
	GasUsed         uint64
	// Err equals the error returned by Deploy when Status is StatusFailed
	Err error
}

type Deployer struct {
	backend  Backend
	artifact *contracts.Artifact
	log      *zap.Logger
	hooks    services.HookService
}

type Option func(*Deployer)

func WithLogger(log *zap.Logger) Option {
	return func(d *Deployer) {
		if log != nil {
			d.log = log
		}
	}
}

// WithHooks notifies hookService on submission, confirmation and failure
func WithHooks(hookService services.HookService) Option {
	return func(d *Deployer) {
		d.hooks = hookService
	}
}

func New(backend Backend, artifact *contracts.Artifact, opts ...Option) *Deployer {
	d := &Deployer{
		backend:  backend,
		artifact: artifact,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dial connects to the configured RPC endpoint
func Dial(ctx context.Context, rpcURL string) (*ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, newError(ErrNetwork, "dial", err)
	}
	return client, nil
}

// run carries the state of one Deploy call
type run struct {
	result *Result
	record models.Deployment
}

// Deploy submits one creation transaction for the factory with constructor
// (commissionWallet, creationFee) and waits for its receipt.
// The network is only contacted after the config, signer, fee and address are valid.
func (d *Deployer) Deploy(ctx context.Context, cfg config.DeploymentConfig, commissionWallet, feeLiteral string) (*Result, error) {
	r := &run{
		result: &Result{Status: StatusFailed},
		record: models.Deployment{
			ID:           uuid.New().String(),
			ContractName: d.artifact.ContractName,
			NetworkName:  cfg.NetworkName,
			ChainID:      cfg.ChainID,
			RPCHost:      rpcHost(cfg.RPCURL),
			Status:       models.TransactionStatusPending,
			CreatedAt:    time.Now(),
		},
	}

	if err := d.deploy(ctx, cfg, commissionWallet, feeLiteral, r); err != nil {
		r.result.Status = StatusFailed
		r.result.Err = err
		r.record.Error = err.Error()
		d.log.Error("Factory deployment failed", zap.String("id", r.record.ID), zap.Error(err))
		d.notify(models.DeploymentEventFailed, r.record)
		return r.result, err
	}

	r.result.Status = StatusDeployed
	d.notify(models.DeploymentEventConfirmed, r.record)
	return r.result, nil
}

func (d *Deployer) deploy(ctx context.Context, cfg config.DeploymentConfig, commissionWallet, feeLiteral string, r *run) error {
	log := d.log.With(zap.String("id", r.record.ID), zap.String("network", cfg.NetworkName))

	if err := cfg.Validate(); err != nil {
		return newError(ErrInvalidConfig, "validate config", err)
	}

	s, err := signer.FromSecret(cfg.Signer, cfg.ChainID)
	if err != nil {
		return newError(ErrCredential, "derive signer", err)
	}
	r.result.Deployer = s.Address()
	r.record.DeployerAddress = s.Address().Hex()

	fee, err := utils.ParseUnits(feeLiteral, constants.NativeDecimals)
	if err != nil {
		return newError(ErrConversion, "parse creation fee", err)
	}
	r.result.CreationFee = fee

	wallet, err := utils.ValidateAddress(commissionWallet)
	if err != nil {
		return newError(ErrInvalidAddress, "validate commission wallet", err)
	}
	args, err := utils.ConstructorArgsToStringMap(d.artifact.ABI, wallet, fee)
	if err != nil {
		return newError(ErrConversion, "record constructor arguments", err)
	}
	r.record.ConstructorArgs = make(models.JSON, len(args))
	for name, value := range args {
		r.record.ConstructorArgs[name] = value
	}

	data, err := d.artifact.DeploymentData(wallet, fee)
	if err != nil {
		// both arguments are already validated, so this is an artifact problem
		return newError(ErrConversion, "encode constructor arguments", err)
	}

	log.Info("Deploying factory",
		zap.String("contract", d.artifact.ContractName),
		zap.Stringer("deployer", s.Address()),
		zap.Stringer("commission_wallet", wallet),
		zap.String("creation_fee", utils.FormatUnits(fee, constants.NativeDecimals)),
	)

	tx, err := d.submit(ctx, s, data)
	if err != nil {
		return err
	}
	r.result.TransactionHash = tx.Hash()
	r.record.TransactionHash = tx.Hash().Hex()
	log.Info("Deployment transaction submitted", zap.Stringer("tx", tx.Hash()))
	d.notify(models.DeploymentEventSubmitted, r.record)

	receipt, err := d.waitMined(ctx, tx.Hash(), cfg.ConfirmationTimeout, cfg.PollInterval)
	if err != nil {
		return err
	}
	r.result.BlockNumber = receipt.BlockNumber.Uint64()
	r.result.GasUsed = receipt.GasUsed
	r.record.BlockNumber = r.result.BlockNumber
	r.record.GasUsed = r.result.GasUsed

	if receipt.Status != types.ReceiptStatusSuccessful {
		return newTxError(ErrNetwork, "confirm", tx.Hash(), ErrReverted)
	}
	if receipt.ContractAddress == (common.Address{}) {
		return newTxError(ErrNetwork, "confirm", tx.Hash(), ErrNoContractAddress)
	}

	r.result.Address = receipt.ContractAddress
	r.record.ContractAddress = receipt.ContractAddress.Hex()
	log.Info("Factory deployed",
		zap.Stringer("address", receipt.ContractAddress),
		zap.Uint64("block", r.result.BlockNumber),
		zap.Uint64("gas_used", r.result.GasUsed),
	)
	return nil
}

// submit builds, signs and sends the creation transaction exactly once
func (d *Deployer) submit(ctx context.Context, s *signer.Signer, data []byte) (*types.Transaction, error) {
	chainID, err := d.backend.ChainID(ctx)
	if err != nil {
		return nil, newError(ErrNetwork, "get chain id", err)
	}
	if chainID.Cmp(s.ChainID()) != 0 {
		return nil, newError(ErrNetwork, "check chain id",
			fmt.Errorf("%w: network reports chain id %s, configured %s", ErrChainMismatch, chainID, s.ChainID()))
	}

	latest, err := d.backend.NonceAt(ctx, s.Address(), nil)
	if err != nil {
		return nil, newError(ErrNetwork, "get nonce", err)
	}
	nonce, err := d.backend.PendingNonceAt(ctx, s.Address())
	if err != nil {
		return nil, newError(ErrNetwork, "get pending nonce", err)
	}
	if nonce > latest {
		return nil, newError(ErrNetwork, "check pending transactions",
			fmt.Errorf("%w: pending nonce %d, confirmed nonce %d", ErrPendingTransaction, nonce, latest))
	}

	gasPrice, err := d.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, newError(ErrNetwork, "suggest gas price", err)
	}

	gasLimit, err := d.backend.EstimateGas(ctx, ethereum.CallMsg{
		From: s.Address(),
		Data: data,
	})
	if err != nil {
		return nil, newError(ErrNetwork, "estimate gas", err)
	}

	tx, err := s.SignTx(types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		Value:    big.NewInt(0),
		Data:     data,
	}))
	if err != nil {
		return nil, newError(ErrCredential, "sign transaction", err)
	}

	if err := d.backend.SendTransaction(ctx, tx); err != nil {
		return nil, newTxError(ErrNetwork, "send transaction", tx.Hash(), err)
	}
	return tx, nil
}

// waitMined polls for the receipt until it exists or timeout elapses
func (d *Deployer) waitMined(ctx context.Context, txHash common.Hash, timeout, interval time.Duration) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		receipt, err := d.backend.TransactionReceipt(ctx, txHash)
		if err == nil {
			return receipt, nil
		}
		if !isPending(err) && ctx.Err() == nil {
			return nil, newTxError(ErrNetwork, "get receipt", txHash, err)
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, newTxError(ErrConfirmationTimeout, "wait for receipt", txHash,
					fmt.Errorf("no receipt after %s", timeout))
			}
			return nil, newTxError(ErrNetwork, "wait for receipt", txHash, ctx.Err())
		case <-ticker.C:
			d.log.Debug("Waiting for deployment receipt", zap.Stringer("tx", txHash))
		}
	}
}

func isPending(err error) bool {
	if errors.Is(err, ethereum.NotFound) {
		return true
	}
	// nodes answer this while the transaction index is still being built
	return strings.Contains(err.Error(), "indexing is in progress")
}

// notify runs the hook chain. Hook failures never change the deployment outcome.
func (d *Deployer) notify(event models.DeploymentEvent, record models.Deployment) {
	if d.hooks == nil {
		return
	}
	if err := d.hooks.OnDeploymentEvent(event, record); err != nil {
		d.log.Warn("Deployment hook failed", zap.String("event", string(event)), zap.Error(err))
	}
}

// rpcHost keeps only the host so credentials in the URL path or query are never recorded
func rpcHost(rpcURL string) string {
	u, err := url.Parse(rpcURL)
	if err != nil {
		return ""
	}
	return u.Host
}
