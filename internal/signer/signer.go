package signer

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/rxtech-lab/factory-deployer/internal/config"
)

var (
	ErrMissingKey     = errors.New("private key is not set")
	ErrInvalidKey     = errors.New("invalid private key")
	ErrInvalidChainID = errors.New("chain id must be positive")
)

// Signer signs transactions for one key on one chain
type Signer struct {
	key      *ecdsa.PrivateKey
	address  common.Address
	chainID  *big.Int
	txSigner types.Signer
}

// FromSecret derives a signer from a hex encoded secp256k1 key, with or without 0x prefix.
// Errors never include the key material.
func FromSecret(secret config.Secret, chainID int64) (*Signer, error) {
	raw := strings.TrimSpace(secret.Reveal())
	if raw == "" {
		return nil, ErrMissingKey
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(raw, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: expected 32 byte hex secp256k1 key", ErrInvalidKey)
	}

	return FromPrivateKey(key, chainID)
}

func FromPrivateKey(key *ecdsa.PrivateKey, chainID int64) (*Signer, error) {
	if key == nil {
		return nil, ErrMissingKey
	}
	if chainID <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChainID, chainID)
	}

	id := big.NewInt(chainID)
	return &Signer{
		key:      key,
		address:  crypto.PubkeyToAddress(key.PublicKey),
		chainID:  id,
		txSigner: types.LatestSignerForChainID(id),
	}, nil
}

func (s *Signer) Address() common.Address {
	return s.address
}

func (s *Signer) ChainID() *big.Int {
	return new(big.Int).Set(s.chainID)
}

func (s *Signer) SignTx(tx *types.Transaction) (*types.Transaction, error) {
	signed, err := types.SignTx(tx, s.txSigner, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return signed, nil
}
