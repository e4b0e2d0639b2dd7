package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	"github.com/rxtech-lab/factory-deployer/internal/config"
	"github.com/rxtech-lab/factory-deployer/internal/models"
	"github.com/rxtech-lab/factory-deployer/internal/services"
)

const timeLayout = "2006-01-02 15:04:05"

func newHistoryCmd(v *viper.Viper, flags *rootFlags, stdout io.Writer) *cobra.Command {
	var chainID int64

	cmd := &cobra.Command{
		Use:   "history [run-id | tx-hash]",
		Short: "List recorded factory deployments, or show one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(flags.envFile); err != nil {
				return err
			}

			dsn := v.GetString(config.KeyDatabase)
			if dsn == "" {
				return fmt.Errorf("no deployment ledger configured: set --db or DEPLOYMENTS_DB")
			}

			log, err := newLogger(flags.enableLog)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			db, err := services.NewDBService(dsn, log)
			if err != nil {
				return fmt.Errorf("failed to open deployment ledger: %w", err)
			}
			defer db.Close()

			deploymentService := services.NewDeploymentService(db.GetDB())
			if len(args) == 1 {
				return showDeployment(stdout, deploymentService, args[0])
			}

			var deployments []models.Deployment
			if chainID > 0 {
				deployments, err = deploymentService.ListDeploymentsByChain(chainID)
			} else {
				deployments, err = deploymentService.ListDeployments()
			}
			if err != nil {
				return fmt.Errorf("failed to list deployments: %w", err)
			}

			if len(deployments) == 0 {
				fmt.Fprintln(stdout, "No deployments recorded")
				return nil
			}

			table := tablewriter.NewWriter(stdout)
			table.Header("Created", "Network", "Chain", "Status", "Contract", "Transaction")
			for _, d := range deployments {
				if err := table.Append([]string{
					d.CreatedAt.Format(timeLayout),
					d.NetworkName,
					strconv.FormatInt(d.ChainID, 10),
					string(d.Status),
					valueOrDash(d.ContractAddress),
					valueOrDash(d.TransactionHash),
				}); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}

	cmd.Flags().Int64Var(&chainID, "chain-id", 0, "only show deployments on this chain")
	return cmd
}

// showDeployment prints one run, looked up by transaction hash when the reference is 0x-prefixed
func showDeployment(stdout io.Writer, deploymentService services.DeploymentService, ref string) error {
	var (
		d   *models.Deployment
		err error
	)
	if strings.HasPrefix(ref, "0x") {
		d, err = deploymentService.GetDeploymentByTransactionHash(ref)
	} else {
		d, err = deploymentService.GetDeploymentByID(ref)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("no deployment recorded for %s", ref)
	}
	if err != nil {
		return fmt.Errorf("failed to get deployment: %w", err)
	}

	rows := [][]string{
		{"Run", d.ID},
		{"Created", d.CreatedAt.Format(timeLayout)},
		{"Contract", d.ContractName},
		{"Network", d.NetworkName},
		{"Chain", strconv.FormatInt(d.ChainID, 10)},
		{"RPC host", valueOrDash(d.RPCHost)},
		{"Deployer", valueOrDash(d.DeployerAddress)},
		{"Status", string(d.Status)},
		{"Address", valueOrDash(d.ContractAddress)},
		{"Transaction", valueOrDash(d.TransactionHash)},
	}
	names := make([]string, 0, len(d.ConstructorArgs))
	for name := range d.ConstructorArgs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rows = append(rows, []string{name, fmt.Sprint(d.ConstructorArgs[name])})
	}
	if d.Error != "" {
		rows = append(rows, []string{"Error", d.Error})
	}

	table := tablewriter.NewWriter(stdout)
	table.Header("Field", "Value")
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
