package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ErrInvalidAddress is wrapped by every ValidateAddress failure
var ErrInvalidAddress = errors.New("invalid address")

// ValidateAddress checks that address is a 0x-prefixed 20 byte hex literal.
// All-lowercase and all-uppercase literals carry no checksum and are accepted as is;
// mixed case literals must match their EIP-55 checksum.
func ValidateAddress(address string) (common.Address, error) {
	if !strings.HasPrefix(address, "0x") {
		return common.Address{}, fmt.Errorf("%w: %q must start with 0x", ErrInvalidAddress, address)
	}

	if !common.IsHexAddress(address) {
		return common.Address{}, fmt.Errorf("%w: %q is not a 20 byte hex address", ErrInvalidAddress, address)
	}

	digits := address[2:]
	if digits != strings.ToLower(digits) && digits != strings.ToUpper(digits) {
		mixed, err := common.NewMixedcaseAddressFromString(address)
		if err != nil {
			return common.Address{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
		}
		if !mixed.ValidChecksum() {
			return common.Address{}, fmt.Errorf("%w: %q fails checksum, expected %s", ErrInvalidAddress, address, mixed.Address().Hex())
		}
	}

	return common.HexToAddress(address), nil
}
