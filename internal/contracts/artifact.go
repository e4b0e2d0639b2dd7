package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/rxtech-lab/factory-deployer/internal/utils"
)

// ErrConstructorMismatch is returned when the artifact constructor is not (address, uint256)
var ErrConstructorMismatch = errors.New("factory constructor must be (address commissionWallet, uint256 creationFee)")

// Artifact is a compiled factory contract ready to deploy
type Artifact struct {
	ContractName string
	ABI          abi.ABI
	Bytecode     []byte
}

// hardhatArtifact mirrors the JSON Hardhat writes under artifacts/contracts/<File>.sol/<Name>.json
type hardhatArtifact struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     string          `json:"bytecode"`
}

// Load reads a Hardhat artifact (.json) or compiles a Solidity source (.sol) with solcVersion.
// The returned artifact has already passed CheckConstructor.
func Load(path, solcVersion string) (*Artifact, error) {
	var (
		artifact *Artifact
		err      error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		artifact, err = loadHardhatArtifact(path)
	case ".sol":
		artifact, err = compileSource(path, solcVersion)
	default:
		return nil, fmt.Errorf("unsupported artifact %s: expected .json or .sol", path)
	}
	if err != nil {
		return nil, err
	}

	if err := artifact.CheckConstructor(); err != nil {
		return nil, err
	}
	return artifact, nil
}

func loadHardhatArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	return ParseHardhatArtifact(data)
}

func ParseHardhatArtifact(data []byte) (*Artifact, error) {
	var raw hardhatArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode artifact: %w", err)
	}
	return NewArtifact(raw.ContractName, string(raw.ABI), raw.Bytecode)
}

func NewArtifact(contractName, abiJSON, bytecode string) (*Artifact, error) {
	parsedABI, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}

	code, err := utils.DecodeBytecode(bytecode)
	if err != nil {
		return nil, fmt.Errorf("contract %s: %w", contractName, err)
	}

	return &Artifact{
		ContractName: contractName,
		ABI:          parsedABI,
		Bytecode:     code,
	}, nil
}

func compileSource(path, solcVersion string) (*Artifact, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}

	// Relative sources keep their project path as the solc source unit name so
	// "./Lib.sol" and "@openzeppelin/..." resolve against the working directory.
	root, unit := ".", filepath.ToSlash(filepath.Clean(path))
	if filepath.IsAbs(path) {
		root, unit = filepath.Dir(path), filepath.Base(path)
	}

	result, err := utils.CompileSolidity(solcVersion, unit, string(code), root)
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s: %w", path, err)
	}

	contractName := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	bytecode, ok := result.Bytecode[contractName]
	if !ok {
		return nil, fmt.Errorf("contract %s not found in compilation result", contractName)
	}

	abiJSON, err := json.Marshal(result.Abi[contractName])
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ABI: %w", err)
	}

	return NewArtifact(contractName, string(abiJSON), bytecode)
}

// CheckConstructor fails unless the constructor is exactly (address, uint256)
func (a *Artifact) CheckConstructor() error {
	inputs := a.ABI.Constructor.Inputs
	if len(inputs) != 2 {
		return fmt.Errorf("%w: %s takes %d arguments", ErrConstructorMismatch, a.ContractName, len(inputs))
	}
	if inputs[0].Type.T != abi.AddressTy {
		return fmt.Errorf("%w: first argument is %s", ErrConstructorMismatch, inputs[0].Type.String())
	}
	if inputs[1].Type.T != abi.UintTy || inputs[1].Type.Size != 256 {
		return fmt.Errorf("%w: second argument is %s", ErrConstructorMismatch, inputs[1].Type.String())
	}
	return nil
}

// DeploymentData returns creation bytecode followed by the ABI encoded constructor arguments
func (a *Artifact) DeploymentData(commissionWallet common.Address, creationFee *big.Int) ([]byte, error) {
	encodedArgs, err := utils.EncodeContractConstructorArgs(a.ABI, []any{commissionWallet, creationFee})
	if err != nil {
		return nil, err
	}
	return utils.BuildDeploymentTransactionData(a.Bytecode, encodedArgs), nil
}
