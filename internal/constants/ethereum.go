package constants

import (
	"math/big"
	"time"
)

var MaxUint256 = func() *big.Int {
	val := new(big.Int)
	val.SetString("115792089237316195423570985008687907853269984665640564039457584007913129639935", 10)
	return val
}()

// NativeDecimals is the decimal exponent of the native asset (wei per ether is 10^18).
const NativeDecimals = 18

const (
	// NetworkName is the Hardhat network profile name.
	NetworkName = "core_testnet"
	// DefaultRPCURL is used when neither RPC_URL nor CORE_TESTNET_RPC_URL is set.
	DefaultRPCURL = "https://rpc.test2.btcs.network"
	// CoreTestnetChainID is the chain id of Core testnet2.
	CoreTestnetChainID int64 = 1114
	// SolcVersion matches the compiler pinned for the factory sources.
	SolcVersion = "0.8.28"
)

const (
	FactoryContractName     = "InheritanceFactory"
	DefaultCommissionWallet = "0xeCd960325d5FFd74262876FB36dc732f8d9c7b62"
	DefaultCreationFee      = "0.01"
	DefaultArtifactPath     = "artifacts/contracts/InheritanceFactory.sol/InheritanceFactory.json"
)

// Confirmation wait bounds for the deployment transaction
const (
	DefaultConfirmationTimeout = 5 * time.Minute
	DefaultPollInterval        = 2 * time.Second
)
