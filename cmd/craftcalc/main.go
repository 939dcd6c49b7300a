package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mswatii/cs2-craftcalc/internal/catalog"
	"github.com/mswatii/cs2-craftcalc/internal/config"
	"github.com/mswatii/cs2-craftcalc/internal/logger"
	"github.com/mswatii/cs2-craftcalc/internal/service"
)

const envPrefix = "CRAFTCALC"

// app holds what every subcommand shares
type app struct {
	v       *viper.Viper
	svc     *service.Service
	cleanup func()
}

func newApp() *app {
	return &app{v: viper.New()}
}

// close releases what init opened. It runs whether or not the command failed.
func (a *app) close() {
	if a.cleanup != nil {
		a.cleanup()
		a.cleanup = nil
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "craftcalc",
		Short: "CS2 trade-up wear and profit calculator",
		Long: `craftcalc maps material wear to crafted knife and glove wear, finds the
highest material wear that still yields a target exterior, and tracks the
market prices that decide whether a craft is worth it.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
	}

	flags := root.PersistentFlags()
	flags.String("line", catalog.LineSpectrum, "product line (spectrum, revolution)")
	flags.String("kind", "", "output kind (default: the line's default kind)")
	flags.Bool("low-wear", false, "use the low-wear knife output domain")
	flags.String("data-dir", "", "directory holding the price state files")
	flags.String("catalog", "", "YAML file with catalog overrides")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text, json)")

	for _, name := range []string{"line", "kind", "low-wear", "data-dir", "catalog", "log-level", "log-format"} {
		_ = a.v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(
		a.linesCmd(),
		a.mapCmd(),
		a.classifyCmd(),
		a.maxWearCmd(),
		a.resolveCmd(),
		a.pricesCmd(),
		a.profitCmd(),
		a.exportCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command, _ []string) error {
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(envKeyReplacer)
	a.v.AutomaticEnv()

	logger.InitWithWriter(logger.Config{
		Level:  a.v.GetString("log-level"),
		Format: a.v.GetString("log-format"),
	}, cmd.ErrOrStderr())

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if dir := a.v.GetString("data-dir"); dir != "" {
		cfg.DataDir = dir
	}
	if file := a.v.GetString("catalog"); file != "" {
		cfg.CatalogFile = file
	}

	svc, cleanup, err := service.Build(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	a.svc, a.cleanup = svc, cleanup
	return nil
}

func (a *app) line() string { return a.v.GetString("line") }

// kind resolves --kind and --low-wear into an output kind id
func (a *app) kind() string {
	if a.v.GetBool("low-wear") {
		return catalog.KindKnifeLowWear
	}
	return a.v.GetString("kind")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	a := newApp()
	err := a.rootCmd().ExecuteContext(ctx)
	a.close()
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}
}
