package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/feralclo/feral-presents/internal/cart"
	"github.com/feralclo/feral-presents/internal/config"
	"github.com/feralclo/feral-presents/internal/handlers"
	"github.com/feralclo/feral-presents/internal/logging"
	"github.com/feralclo/feral-presents/internal/store"
	"github.com/feralclo/feral-presents/internal/track"
)

var version = "dev"

var (
	configPath string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:   "feral",
	Short: "FERAL PRESENTS ticketing platform service",
	Long: `The FERAL PRESENTS backend: admin dashboard API, storefront and
checkout, branding asset processing and ticket artwork rendering.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		log, err := logging.New(debug)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		defer log.Sync()

		st, err := store.Open(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer st.Close()

		if cfg.GinMode == "release" && !debug {
			gin.SetMode(gin.ReleaseMode)
		}
		r := gin.New()
		r.Use(logging.RequestLogger(log))
		r.Use(gin.Recovery())

		carts := cart.NewSessions(cfg.CartTTLDuration(), track.NewLogTracker(log))
		handlers.New(st, carts, log, cfg).Register(r)

		log.Info("feral-presents listening",
			zap.String("addr", cfg.Listen),
			zap.String("db", cfg.DatabasePath),
			zap.String("version", version))
		return r.Run(cfg.Listen)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the service version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "feral.yaml", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	rootCmd.AddCommand(serveCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
