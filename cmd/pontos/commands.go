package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"pontos/internal/amqp"
	"pontos/internal/balance"
	"pontos/internal/cli"
	"pontos/internal/config"
	"pontos/internal/core"
	applog "pontos/internal/log"
	"pontos/internal/ports"
	"pontos/internal/services"
)

// app is the per-invocation wiring shared by subcommands.
type app struct {
	cfg    *config.Config
	logger *applog.Logger
	store  ports.Store
	calc   *balance.Calculator
	ledger *services.LedgerService
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("Failed to close store", applog.FieldError, err)
		}
	}
}

func openApp() (*app, error) {
	cfg := config.Load()
	logger := cli.SetupLogger(cfg, applog.ComponentCLI)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := cli.OpenStore(logger, cfg)
	if err != nil {
		return nil, err
	}
	calc, err := cli.NewCalculator(cfg, logger)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		store:  store,
		calc:   calc,
		ledger: services.NewLedgerService(store, calc, cfg.MaxLedgerDays, nil),
	}, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pontos",
		Short: "Daily points ledger for children",
		Long: `pontos reconstructs each child's day-by-day points balance from the
recorded activities and expenses. Days are bucketed in the configured
reference timezone (TIMEZONE, default America/Fortaleza).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newLedgerCmd(),
		newBalanceCmd(),
		newChildrenCmd(),
		newCategoriesCmd(),
		newImportCmd(),
		newRecomputeCmd(),
	)
	return root
}

func childFlag(cmd *cobra.Command) {
	cmd.Flags().Int64P("child", "c", 0, "Child id")
	_ = cmd.MarkFlagRequired("child")
}

func newLedgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Print a child's daily ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			childID, _ := cmd.Flags().GetInt64("child")
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			ledger, err := a.ledger.ChildLedger(cmd.Context(), childID)
			if err != nil {
				return explain(err)
			}
			return writeLedger(cmd.OutOrStdout(), ledger)
		},
	}
	childFlag(cmd)
	return cmd
}

func newBalanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Print a child's current balance and today's movements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			childID, _ := cmd.Flags().GetInt64("child")
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			sum, err := a.ledger.Summary(cmd.Context(), childID)
			if err != nil {
				return explain(err)
			}
			return writeSummary(cmd.OutOrStdout(), sum)
		},
	}
	childFlag(cmd)
	return cmd
}

func newChildrenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "children",
		Short: "List children",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			children, err := a.store.ListChildren(cmd.Context())
			if err != nil {
				return err
			}
			return writeChildren(cmd.OutOrStdout(), children, a.calc.Location())
		},
	}
}

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List activity categories and the default activity catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeCategories(cmd.OutOrStdout())
		},
	}
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a JSON backup",
		Long: `Import a JSON backup exported by the points app. Children are created
anew; activities and expenses are attached to them. Invalid records are
skipped and counted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open backup: %w", err)
			}
			defer f.Close()

			backup, err := services.ParseBackup(f)
			if err != nil {
				return err
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			res, err := services.NewImporter(a.store, nil).Import(cmd.Context(), backup)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "batch %s: %d children, %d activities, %d expenses imported, %d skipped\n",
				res.BatchID, res.Children, res.Activities, res.Expenses, res.Skipped)
			return nil
		},
	}
}

func newRecomputeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recompute",
		Short: "Ask the worker to recompute and publish a child's balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			childID, _ := cmd.Flags().GetInt64("child")
			reason, _ := cmd.Flags().GetString("reason")

			cfg := config.Load()
			cli.SetupLogger(cfg, applog.ComponentCLI)
			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.AMQPURL == "" {
				return errors.New("AMQP_URL is not set")
			}

			client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, amqp.Queues{
				Recompute: cfg.AMQPRecomputeQueue,
				Snapshot:  cfg.AMQPSnapshotQueue,
			})
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.PublishRecompute(cmd.Context(), childID, reason); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "recompute requested for child %d\n", childID)
			return nil
		},
	}
	childFlag(cmd)
	cmd.Flags().String("reason", "manual", "Reason recorded on the request")
	return cmd
}

func explain(err error) error {
	switch {
	case errors.Is(err, ports.ErrChildNotFound):
		return fmt.Errorf("no such child (use 'pontos children' to list them): %w", err)
	case errors.Is(err, services.ErrRangeTooLarge):
		return fmt.Errorf("%w (raise MAX_LEDGER_DAYS to allow longer histories)", err)
	}
	return err
}

func writeLedger(w io.Writer, ledger balance.Ledger) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "DATE\tINITIAL\tPOSITIVE\tNEGATIVE\tEXPENSES\tFINAL\tRECORDS\t")
	for _, e := range ledger.Entries {
		fmt.Fprintf(tw, "%s\t%d\t+%d\t-%d\t-%d\t%d\t%d\t\n",
			e.DateString, e.InitialBalance, e.PositivePoints, e.NegativePoints, e.Expenses, e.FinalBalance,
			len(e.Activities)+len(e.ExpensesList))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "current balance: %d\n", ledger.CurrentBalance())
	if d := ledger.Diagnostics; d.Excluded() {
		fmt.Fprintf(w, "excluded: %d activities, %d expenses outside the ledger range\n",
			d.OutOfRangeActivities, d.OutOfRangeExpenses)
	}
	return nil
}

func writeSummary(w io.Writer, sum services.ChildSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "child\t%s (#%d)\n", sum.Name, sum.ChildID)
	fmt.Fprintf(tw, "balance\t%d\n", sum.CurrentBalance)
	fmt.Fprintf(tw, "today\t%s\n", sum.Today.DateString)
	fmt.Fprintf(tw, "positive\t+%d\n", sum.Today.PositivePoints)
	fmt.Fprintf(tw, "negative\t-%d\n", sum.Today.NegativePoints)
	fmt.Fprintf(tw, "expenses\t-%d\n", sum.Today.Expenses)
	fmt.Fprintf(tw, "days\t%d\n", sum.Days)
	return tw.Flush()
}

func writeChildren(w io.Writer, children []core.Child, loc *time.Location) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tINITIAL\tSTART")
	for _, c := range children {
		start := "-"
		if !c.StartDate.IsZero() {
			start = balance.FormatDate(c.StartDate, loc)
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", c.ID, c.Name, c.InitialBalance, start)
	}
	return tw.Flush()
}

func writeCategories(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tLABEL\tPOLARITY\tMULTIPLIER")
	for _, info := range core.Categories() {
		fmt.Fprintf(tw, "%s\t%s\t%s\tx%d\n", info.Category, info.Label, info.Polarity, info.DefaultMultiplier)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "CODE\tACTIVITY\tCATEGORY\tPOINTS")
	for _, d := range core.DefaultActivities() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", d.Code, d.Name, d.Category, d.Points)
	}
	return tw.Flush()
}
