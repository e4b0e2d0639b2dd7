package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/rxtech-lab/factory-deployer/internal/config"
	"github.com/rxtech-lab/factory-deployer/internal/constants"
	"github.com/rxtech-lab/factory-deployer/internal/contracts"
	"github.com/rxtech-lab/factory-deployer/internal/deployer"
	"github.com/rxtech-lab/factory-deployer/internal/hooks"
	"github.com/rxtech-lab/factory-deployer/internal/services"
	"github.com/rxtech-lab/factory-deployer/internal/utils"
)

// Build information (set via ldflags)
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

type rootFlags struct {
	envFile   string
	enableLog bool
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	v := config.NewViper()
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "deploy-factory",
		Short: "Deploy the InheritanceFactory contract",
		Long: `Deploys the InheritanceFactory contract with constructor
(commissionWallet, creationFee) to Core testnet 2 and prints its address.

Configuration is read from flags, the environment and a .env file:

  PRIVATE_KEY             deployer key (hex, required)
  RPC_URL                 endpoint, CORE_TESTNET_RPC_URL is also accepted
  COMMISSION_WALLET       constructor address argument
  CREATION_FEE            constructor fee in native units, e.g. 0.01
  FACTORY_ARTIFACT        Hardhat artifact (.json) or Solidity source (.sol)
  CONFIRMATION_TIMEOUT    how long to wait for the receipt
  DEPLOYMENTS_DB          ledger DSN (sqlite path or postgres:// URL)`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, CommitHash, BuildTime),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := newLogger(flags.enableLog)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			return deployFactory(cmd.Context(), v, flags, log, stdout)
		},
	}

	// Disable printing the completion command
	cmd.CompletionOptions.HiddenDefaultCmd = true

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	pf.BoolVar(&flags.enableLog, "log", false, "Enable debug logging output")
	pf.String("db", "", "deployment ledger DSN (sqlite path or postgres:// URL)")

	f := cmd.Flags()
	f.String("rpc-url", "", "RPC endpoint (default "+constants.DefaultRPCURL+")")
	f.Int64("chain-id", 0, "expected chain id (default 1114)")
	f.String("commission-wallet", "", "commission wallet address (default "+constants.DefaultCommissionWallet+")")
	f.String("creation-fee", "", "creation fee in native units (default "+constants.DefaultCreationFee+")")
	f.String("artifact", "", "factory artifact path (default "+constants.DefaultArtifactPath+")")
	f.Duration("timeout", 0, "confirmation timeout (default 5m)")

	bind := map[string]string{
		config.KeyRPCURL:              "rpc-url",
		config.KeyChainID:             "chain-id",
		config.KeyCommissionWallet:    "commission-wallet",
		config.KeyCreationFee:         "creation-fee",
		config.KeyArtifact:            "artifact",
		config.KeyConfirmationTimeout: "timeout",
	}
	for key, name := range bind {
		// BindPFlag only fails for a nil flag
		_ = v.BindPFlag(key, f.Lookup(name))
	}
	_ = v.BindPFlag(config.KeyDatabase, pf.Lookup("db"))

	cmd.AddCommand(newHistoryCmd(v, flags, stdout))
	return cmd
}

// newLogger writes to stderr. Without --log only warnings and errors are shown.
func newLogger(enableLog bool) (*zap.Logger, error) {
	if enableLog {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func deployFactory(ctx context.Context, v *viper.Viper, flags *rootFlags, log *zap.Logger, stdout io.Writer) error {
	if err := config.LoadDotEnv(flags.envFile); err != nil {
		return err
	}

	cfg, err := config.Resolve(v)
	if err != nil {
		return err
	}
	log.Info("Resolved configuration", zap.Object("config", cfg))

	artifact, err := contracts.Load(cfg.ArtifactPath, constants.SolcVersion)
	if err != nil {
		return fmt.Errorf("failed to load factory artifact: %w", err)
	}

	opts := []deployer.Option{deployer.WithLogger(log)}
	if cfg.DatabaseDSN != "" {
		db, err := services.NewDBService(cfg.DatabaseDSN, log)
		if err != nil {
			return fmt.Errorf("failed to open deployment ledger: %w", err)
		}
		defer db.Close()

		hookService := services.NewHookService()
		if err := hookService.AddHook(hooks.NewDeploymentLedgerHook(services.NewDeploymentService(db.GetDB()))); err != nil {
			return err
		}
		opts = append(opts, deployer.WithHooks(hookService))
	}

	client, err := deployer.Dial(ctx, cfg.RPCURL)
	if err != nil {
		return err
	}
	defer client.Close()

	result, err := deployer.New(client, artifact, opts...).Deploy(ctx, cfg, cfg.CommissionWallet, cfg.CreationFee)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "✅ %s deployed at: %s\n", artifact.ContractName, result.Address.Hex())
	fmt.Fprintf(stdout, "Transaction: %s\n", result.TransactionHash.Hex())
	fmt.Fprintf(stdout, "Creation fee: %s (%s wei)\n", utils.FormatUnits(result.CreationFee, constants.NativeDecimals), result.CreationFee)
	return nil
}
