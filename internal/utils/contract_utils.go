package utils

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

func EncodeContractConstructorArgs(parsedABI abi.ABI, args []any) ([]byte, error) {
	constructor := parsedABI.Constructor

	// Check if constructor requires arguments but none provided
	if len(constructor.Inputs) > 0 && len(args) == 0 {
		return nil, fmt.Errorf("contract constructor requires %d arguments but none provided", len(constructor.Inputs))
	}

	if len(constructor.Inputs) == 0 && len(args) == 0 {
		return []byte{}, nil
	}

	processedArgs, err := processConstructorArgs(constructor.Inputs, args)
	if err != nil {
		return nil, fmt.Errorf("failed to process constructor arguments: %w", err)
	}

	encodedArgs, err := constructor.Inputs.Pack(processedArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode constructor arguments: %w", err)
	}

	return encodedArgs, nil
}

func processConstructorArgs(inputs abi.Arguments, args []any) ([]any, error) {
	if len(args) != len(inputs) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(inputs), len(args))
	}

	processedArgs := make([]any, len(args))
	for i, input := range inputs {
		processedArg, err := processArg(input.Type, args[i])
		if err != nil {
			return nil, fmt.Errorf("failed to process argument %d (%s): %w", i, input.Name, err)
		}
		processedArgs[i] = processedArg
	}
	return processedArgs, nil
}

// processArg checks a typed argument against the factory constructor's address and uint256 inputs
func processArg(argType abi.Type, value any) (any, error) {
	switch argType.T {
	case abi.AddressTy:
		address, ok := value.(common.Address)
		if !ok {
			return nil, fmt.Errorf("unsupported address type: %T", value)
		}
		return address, nil

	case abi.UintTy:
		amount, ok := value.(*big.Int)
		if !ok || amount == nil {
			return nil, fmt.Errorf("unsupported integer type: %T", value)
		}
		if amount.Sign() < 0 {
			return nil, fmt.Errorf("negative value %s for %s", amount, argType.String())
		}
		if amount.BitLen() > argType.Size {
			return nil, fmt.Errorf("value %s overflows %s", amount, argType.String())
		}
		return amount, nil

	default:
		return nil, fmt.Errorf("unsupported argument type: %v", argType)
	}
}

// BuildDeploymentTransactionData concatenates creation bytecode and the encoded constructor arguments
func BuildDeploymentTransactionData(bytecode []byte, encodedConstructorArgs []byte) []byte {
	data := make([]byte, 0, len(bytecode)+len(encodedConstructorArgs))
	data = append(data, bytecode...)
	return append(data, encodedConstructorArgs...)
}

// DecodeBytecode accepts creation bytecode with or without the 0x prefix
func DecodeBytecode(bytecode string) ([]byte, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(bytecode), "0x")
	if trimmed == "" {
		return nil, fmt.Errorf("empty bytecode")
	}
	if strings.Contains(trimmed, "__") {
		return nil, fmt.Errorf("bytecode has unlinked library placeholders")
	}
	code, err := hex.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode: %w", err)
	}
	return code, nil
}
