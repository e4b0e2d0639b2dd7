package e2e

import (
	"os"
	"path/filepath"
)

// InheritanceFactorySource is a minimal factory with the deployed constructor shape
const InheritanceFactorySource = `// SPDX-License-Identifier: MIT
pragma solidity ^0.8.28;

contract InheritanceFactory {
    address public commissionWallet;
    uint256 public creationFee;
    address public owner;

    event InheritanceCreated(address indexed creator, uint256 feePaid);

    constructor(address _commissionWallet, uint256 _creationFee) {
        require(_commissionWallet != address(0), "commission wallet is zero");
        commissionWallet = _commissionWallet;
        creationFee = _creationFee;
        owner = msg.sender;
    }

    function createInheritance() external payable {
        require(msg.value >= creationFee, "fee too low");
        (bool ok, ) = commissionWallet.call{value: msg.value}("");
        require(ok, "fee transfer failed");
        emit InheritanceCreated(msg.sender, msg.value);
    }
}
`

// WriteFactorySource writes the factory source into dir and returns its path
func WriteFactorySource(dir string) (string, error) {
	path := filepath.Join(dir, "InheritanceFactory.sol")
	if err := os.WriteFile(path, []byte(InheritanceFactorySource), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
