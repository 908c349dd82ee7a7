package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/watshodapay/watshodapay-go/internal/app"
	"github.com/watshodapay/watshodapay-go/internal/config"
	"github.com/watshodapay/watshodapay-go/internal/handler"
	"github.com/watshodapay/watshodapay-go/internal/logger"
	"github.com/watshodapay/watshodapay-go/internal/model"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type cli struct {
	out string // json | text
	app *app.App
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "watctl",
		Short:         "Maintenance commands for watshodapay",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger.Init(logger.Config{Env: cfg.Env, Level: cfg.LogLevel, ServiceName: "watctl"})

			c.app, err = app.New(cmd.Context(), cfg)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			defer logger.Sync()
			if c.app != nil {
				return c.app.Close()
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&c.out, "out", "text", "Output format: json|text")

	root.AddCommand(c.migrateCmd(), c.resetPayedCmd(), c.checkExpiringCmd(), c.generateCmd())
	return root
}

func (c *cli) print(v any, text string) {
	if c.out == "json" {
		b, _ := json.MarshalIndent(v, "", "  ")
		fmt.Println(string(b))
		return
	}
	fmt.Println(text)
}

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate up|down|status",
		Short:     "Apply or inspect the database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Migrate(cmd.Context(), args[0])
		},
	}
}

func (c *cli) resetPayedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   handler.JobResetPayed,
		Short: "Clear the paid flag of every debt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := c.app.Maintenance.ResetPayedStatus(cmd.Context())
			if err != nil {
				return err
			}
			c.print(model.JobResponse{Job: handler.JobResetPayed, Affected: n}, fmt.Sprintf("%d debts reset", n))
			return nil
		},
	}
}

func (c *cli) checkExpiringCmd() *cobra.Command {
	return &cobra.Command{
		Use:   handler.JobCheckExpiring,
		Short: "Notify users about debts due today or tomorrow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := c.app.Maintenance.CheckExpiringDebts(cmd.Context())
			c.print(model.JobResponse{Job: handler.JobCheckExpiring, Affected: int64(n)}, fmt.Sprintf("%d reminders sent", n))
			return err
		},
	}
}

func (c *cli) generateCmd() *cobra.Command {
	var userID int64
	var year, month int

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a user's payments for a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			y, m, err := c.app.Payments.Period(year, month)
			if err != nil {
				return err
			}
			views, err := c.app.Payments.GenerateMonthPayments(cmd.Context(), userID, y, m)
			c.print(model.GenerateResponse{Year: y, Month: m, Payments: views}, fmt.Sprintf("%d payments generated for %04d-%02d", len(views), y, m))
			return err
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "User id")
	cmd.Flags().IntVar(&year, "year", 0, "Year (default current)")
	cmd.Flags().IntVar(&month, "month", 0, "Month 1-12 (default current)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
