package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"shopfront/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long:  `Start the Shopfront API server with the specified configuration.`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	flags := serveCmd.Flags()

	// Server flags
	flags.StringP("host", "H", "0.0.0.0", "server host")
	flags.IntP("port", "p", 8080, "server port")
	flags.String("mode", "release", "server mode (debug/release/test)")

	// Auth / HTTP flags
	flags.Duration("token-ttl", 0, "access token lifetime, e.g. 24h")
	flags.Float64("login-rps", 5, "login/register requests per second per client ip (0 disables)")
	flags.StringSlice("cors-origin", nil, "allowed CORS origins (repeatable, empty allows all)")

	// Storage flags
	flags.String("mongo-uri", "", "MongoDB URI (empty: in-memory stores)")
	flags.String("redis-addr", "", "Redis address (empty: in-memory oauth2 state)")

	// Log flags
	flags.String("log-level", "info", "log level (trace/debug/info/warn/error/fatal)")
	flags.String("log-format", "console", "log format (json/console)")

	// Bind flags to viper
	_ = viper.BindPFlag("server.host", flags.Lookup("host"))
	_ = viper.BindPFlag("server.port", flags.Lookup("port"))
	_ = viper.BindPFlag("server.mode", flags.Lookup("mode"))
	_ = viper.BindPFlag("auth.access_token_expiry", flags.Lookup("token-ttl"))
	_ = viper.BindPFlag("server.rate_limit.requests_per_second", flags.Lookup("login-rps"))
	_ = viper.BindPFlag("server.cors_allowed_origins", flags.Lookup("cors-origin"))
	_ = viper.BindPFlag("mongo.uri", flags.Lookup("mongo-uri"))
	_ = viper.BindPFlag("redis.addr", flags.Lookup("redis-addr"))
	_ = viper.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", flags.Lookup("log-format"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	// Validate config
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// Create server
	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info().
		Str("addr", addr).
		Str("mode", cfg.Server.Mode).
		Dur("token_ttl", cfg.Auth.AccessTokenExpiry).
		Float64("login_rps", cfg.Server.RateLimit.RequestsPerSecond).
		Msg("starting server")

	return srv.Run(ctx, addr)
}
