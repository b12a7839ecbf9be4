// Command sourcectl manages feed sources directly in the database.
package main

import (
	"log/slog"
	"os"

	"github.com/Nike1016/selfoss/cmd/sourcectl/app"
	"github.com/Nike1016/selfoss/internal/observability/logging"
	"github.com/Nike1016/selfoss/pkg/config"
)

func main() {
	// Logs go to stderr so stdout stays clean for command output.
	logger := logging.New(os.Stderr,
		config.GetEnvString("LOG_FORMAT", "text"),
		config.GetEnvString("LOG_LEVEL", "warn"))
	slog.SetDefault(logger)

	if err := app.NewRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
