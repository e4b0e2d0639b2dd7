package utils

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ConstructorArgsToStringMap maps each constructor argument to its stringified value,
// keyed by the ABI parameter name without Solidity's leading underscore.
// Integers are rendered in decimal, so fees stay in wei.
//
//	args = [commissionWallet, creationFee]
//	output = {"commissionWallet": "0xeCd9...7b62", "creationFee": "10000000000000000"}
func ConstructorArgsToStringMap(contractABI abi.ABI, args ...any) (map[string]string, error) {
	inputs := contractABI.Constructor.Inputs
	if len(args) != len(inputs) {
		return nil, fmt.Errorf("expected %d constructor arguments, got %d", len(inputs), len(args))
	}

	result := make(map[string]string, len(args))
	for i, arg := range args {
		argName := strings.TrimLeft(inputs[i].Name, "_")
		if argName == "" {
			argName = fmt.Sprintf("arg%d", i)
		}
		result[argName] = formatArgValue(arg)
	}

	return result, nil
}

func formatArgValue(arg any) string {
	switch v := arg.(type) {
	case *big.Int:
		return v.String()
	case common.Address:
		return v.Hex()
	default:
		return fmt.Sprintf("%v", v)
	}
}
