package utils

import (
	"encoding/hex"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxtech-lab/factory-deployer/internal/constants"
)

const factoryConstructorABI = `[
	{
		"inputs": [
			{"internalType": "address", "name": "_commissionWallet", "type": "address"},
			{"internalType": "uint256", "name": "_creationFee", "type": "uint256"}
		],
		"stateMutability": "nonpayable",
		"type": "constructor"
	}
]`

const TestAccountAddress = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

func parseFactoryABI(t *testing.T) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(factoryConstructorABI))
	require.NoError(t, err)
	return parsed
}

func TestEncodeContractConstructorArgs(t *testing.T) {
	parsed := parseFactoryABI(t)
	account := common.HexToAddress(TestAccountAddress)

	t.Run("address and big.Int fee", func(t *testing.T) {
		fee, err := ParseUnits("0.01", constants.NativeDecimals)
		require.NoError(t, err)

		encoded, err := EncodeContractConstructorArgs(parsed, []any{common.HexToAddress(constants.DefaultCommissionWallet), fee})
		require.NoError(t, err)
		require.Len(t, encoded, 64)

		expected := "000000000000000000000000" + strings.ToLower(strings.TrimPrefix(constants.DefaultCommissionWallet, "0x")) +
			"000000000000000000000000000000000000000000000000002386f26fc10000"
		assert.Equal(t, expected, hex.EncodeToString(encoded))
	})

	t.Run("max uint256 fee", func(t *testing.T) {
		encoded, err := EncodeContractConstructorArgs(parsed, []any{account, constants.MaxUint256})
		require.NoError(t, err)
		assert.Equal(t, strings.Repeat("ff", 32), hex.EncodeToString(encoded[32:]))
	})

	t.Run("missing arguments", func(t *testing.T) {
		_, err := EncodeContractConstructorArgs(parsed, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "requires 2 arguments")
	})

	t.Run("wrong argument count", func(t *testing.T) {
		_, err := EncodeContractConstructorArgs(parsed, []any{account})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected 2 arguments, got 1")
	})

	t.Run("untyped address", func(t *testing.T) {
		_, err := EncodeContractConstructorArgs(parsed, []any{TestAccountAddress, big.NewInt(1)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported address type: string")
	})

	t.Run("untyped fee", func(t *testing.T) {
		_, err := EncodeContractConstructorArgs(parsed, []any{account, "10000000000000000"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported integer type: string")
	})

	t.Run("nil fee", func(t *testing.T) {
		var fee *big.Int
		_, err := EncodeContractConstructorArgs(parsed, []any{account, fee})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported integer type")
	})

	t.Run("negative fee", func(t *testing.T) {
		_, err := EncodeContractConstructorArgs(parsed, []any{account, big.NewInt(-1)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "negative value")
	})

	t.Run("fee above uint256", func(t *testing.T) {
		tooBig := new(big.Int).Add(constants.MaxUint256, big.NewInt(1))
		_, err := EncodeContractConstructorArgs(parsed, []any{account, tooBig})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "overflows uint256")
	})

	t.Run("unsupported input type", func(t *testing.T) {
		boolABI, err := abi.JSON(strings.NewReader(`[{"inputs":[{"name":"enabled","type":"bool"}],"type":"constructor"}]`))
		require.NoError(t, err)

		_, err = EncodeContractConstructorArgs(boolABI, []any{true})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported argument type")
	})

	t.Run("empty constructor", func(t *testing.T) {
		encoded, err := EncodeContractConstructorArgs(abi.ABI{}, nil)
		require.NoError(t, err)
		assert.Empty(t, encoded)
	})
}

func TestBuildDeploymentTransactionData(t *testing.T) {
	bytecode := []byte{0x60, 0x00, 0x60, 0x00, 0xf3}
	args := []byte{0xaa, 0xbb}

	data := BuildDeploymentTransactionData(bytecode, args)
	assert.Equal(t, []byte{0x60, 0x00, 0x60, 0x00, 0xf3, 0xaa, 0xbb}, data)

	// inputs are not aliased
	data[0] = 0xff
	assert.Equal(t, byte(0x60), bytecode[0])
}

func TestDecodeBytecode(t *testing.T) {
	code, err := DecodeBytecode("0x60006000f3")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x00, 0x60, 0x00, 0xf3}, code)

	code, err = DecodeBytecode("60006000f3\n")
	require.NoError(t, err)
	assert.Len(t, code, 5)

	for _, bad := range []string{"", "0x", "0xzz", "0x6000__$lib$__"} {
		_, err := DecodeBytecode(bad)
		assert.Error(t, err, bad)
	}
}
