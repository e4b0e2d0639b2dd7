package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rxtech-lab/solc-go"
)

type CompilationResult struct {
	Bytecode map[string]string
	Abi      map[string]any
}

// CompileSolidity compiles a single source file. Imports are looked up relative to
// importRoot, with "@scope/..." paths resolved under importRoot/node_modules the way
// Hardhat projects lay them out.
func CompileSolidity(version, fileName, code, importRoot string) (CompilationResult, error) {
	compiler, err := solc.NewWithVersion(version)
	if err != nil {
		return CompilationResult{}, err
	}

	opts := solc.CompileOptions{
		ImportCallback: func(u string) solc.ImportResult {
			content, err := readImport(importRoot, u)
			if err != nil {
				return solc.ImportResult{
					Error: fmt.Sprintf("Import %s not found: %v", u, err),
				}
			}
			return solc.ImportResult{
				Contents: string(content),
			}
		},
	}
	result, err := compiler.CompileWithOptions(&solc.Input{
		Language: "Solidity",
		Sources: map[string]solc.SourceIn{
			fileName: {
				Content: code,
			},
		},
		Settings: solc.Settings{
			OutputSelection: map[string]map[string][]string{
				"*": {
					"*": []string{"abi", "evm.bytecode"},
				},
			},
		},
	}, &opts)
	if err != nil {
		return CompilationResult{}, err
	}

	if len(result.Errors) > 0 {
		return CompilationResult{}, errors.New(fmt.Sprintf("compilation errors: %v", result.Errors))
	}

	bytecodeMap := make(map[string]string)
	abiMap := make(map[string]any)

	for sourceName, contracts := range result.Contracts {
		if sourceName != fileName {
			continue
		}
		for contractName, contract := range contracts {
			bytecodeMap[contractName] = contract.EVM.Bytecode.Object
			abiMap[contractName] = contract.ABI
		}
	}

	return CompilationResult{
		Bytecode: bytecodeMap,
		Abi:      abiMap,
	}, nil
}

func readImport(root, importPath string) ([]byte, error) {
	if root == "" {
		root = "."
	}
	candidates := []string{filepath.Join(root, importPath)}
	if strings.HasPrefix(importPath, "@") {
		candidates = append([]string{filepath.Join(root, "node_modules", importPath)}, candidates...)
	}

	var lastErr error
	for _, candidate := range candidates {
		content, err := os.ReadFile(candidate)
		if err == nil {
			return content, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
