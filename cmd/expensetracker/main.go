package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"expensetracker/internal/cli"
	"expensetracker/internal/config"
	"expensetracker/internal/log"
)

var (
	envFile   string
	appConfig *config.Config
	appLogger *log.Logger

	rootCmd = &cobra.Command{
		Use:   "expensetracker",
		Short: "Personal expense tracker",
		Long: `expensetracker records day-to-day expenses, groups them by day and
compares spending month over month.

Run "expensetracker serve" for the JSON API, or use the subcommands directly.`,
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.PersistentFlags().String("backend", "", "data backend (memory, sqlite)")
	rootCmd.PersistentFlags().String("db", "", "SQLite database path")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (text, json)")

	_ = viper.BindPFlag("DATA_BACKEND", rootCmd.PersistentFlags().Lookup("backend"))
	_ = viper.BindPFlag("SQLITE_DB_PATH", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("LOG_LEVEL", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("LOG_FORMAT", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(summaryCmd())
	rootCmd.AddCommand(bucketsCmd())
	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(seedCmd())
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	if err := cli.LoadEnvFile(envFile); err != nil {
		return err
	}

	viper.AutomaticEnv()
	cfg := config.FromViper(viper.GetViper())
	logger := cli.SetupLogger(cfg).WithComponent(log.ComponentCLI)
	if err := cli.LoadAndValidateConfig(cfg, logger); err != nil {
		return err
	}

	appConfig, appLogger = cfg, logger
	return nil
}
