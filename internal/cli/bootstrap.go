// Package cli provides CLI commands for the skillmatrix application.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/skillmatrix/internal/config"
	"github.com/example/skillmatrix/internal/ctxutil"
	"github.com/example/skillmatrix/internal/wire"
)

// globalActorID stores the actor for the current CLI invocation.
// Set once at startup by StoreActor().
var globalActorID string

// StoreActor records who is running the command. An empty actor falls back
// to $SKILLMATRIX_ACTOR and then the OS user.
func StoreActor(actor string) {
	switch {
	case actor != "":
		globalActorID = actor
	case os.Getenv("SKILLMATRIX_ACTOR") != "":
		globalActorID = os.Getenv("SKILLMATRIX_ACTOR")
	default:
		globalActorID = os.Getenv("USER")
	}
}

// GetActorID returns the stored actor ID from CLI startup.
func GetActorID() string {
	return globalActorID
}

// NewContext creates a context.Background() with the current actor ID embedded.
// CLI commands should use this instead of context.Background() directly.
func NewContext() context.Context {
	ctx := context.Background()
	if globalActorID != "" {
		return ctxutil.WithActorID(ctx, globalActorID)
	}
	return ctx
}

// addLineFlag registers --line on a command.
func addLineFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("line", "l", "", "Line ID (defaults to device.line_id)")
}

// resolveLine returns --line, falling back to the configured device line.
func resolveLine(cmd *cobra.Command) (string, error) {
	lineID, _ := cmd.Flags().GetString("line")
	if lineID != "" {
		return lineID, nil
	}
	if configured := wire.Config().Device.LineID; configured != "" {
		return configured, nil
	}
	return "", fmt.Errorf("no line given: pass --line or set device.line_id in %s", config.Path(wire.ConfigDir()))
}
