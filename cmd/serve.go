package cmd

import (
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"belcit-backend/controllers"
	"belcit-backend/database"
	"belcit-backend/ledger"
	"belcit-backend/middlewares"
	"belcit-backend/routes"
)

// envInt reads an int env var with a default fallback.
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		database.Connect()
		if err := database.Migrate(); err != nil {
			return err
		}

		// Role accounts must exist before any posting happens.
		accounts, err := ledger.ResolveAccounts(database.DB)
		if err != nil {
			log.Error().Err(err).Msg("system accounts missing, run `belcit seed` first")
			return err
		}
		controllers.Init(ledger.New(accounts))

		// Fiber default BodyLimit is 4 MiB; overridable via env.
		bodyLimitBytes := envInt("BODY_LIMIT_BYTES", 0)
		if bodyLimitBytes <= 0 {
			bodyLimitBytes = envInt("BODY_LIMIT_MB", 4) * 1024 * 1024
		}

		app := fiber.New(fiber.Config{
			ErrorHandler: middlewares.ErrorHandler,
			BodyLimit:    bodyLimitBytes,
		})

		allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}
		app.Use(cors.New(cors.Config{
			AllowOrigins:     allowedOrigins,
			AllowCredentials: false, // using Bearer tokens, not cookies
			AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
		}))

		rlMax := envInt("RATE_LIMIT_MAX", 60)
		rlWindow := time.Duration(envInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second
		app.Use(limiter.New(limiter.Config{
			Max:        rlMax,
			Expiration: rlWindow,
		}))

		routes.Register(app)

		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		log.Info().Str("port", port).Msg("starting API server")
		return app.Listen(":" + port)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
