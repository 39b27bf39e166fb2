package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/btcsuite/btclog"
	"github.com/urfave/cli/v3"

	"github.com/mahdiidarabi/ecdsa-secp256k1/pkg/ecdsa"
	"github.com/mahdiidarabi/ecdsa-secp256k1/pkg/nonceaudit"
)

// Subsystem tags for the library loggers.
const (
	ecdsaSubsystem = "ECDS"
	auditSubsystem = "AUDT"
)

// setupLogging routes library logging to the command's error writer at the
// level given by --log-level.
func setupLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	level, ok := btclog.LevelFromString(cmd.String("log-level"))
	if !ok {
		return ctx, fmt.Errorf("unknown log level %q", cmd.String("log-level"))
	}

	var w io.Writer = os.Stderr
	if root := cmd.Root(); root.ErrWriter != nil {
		w = root.ErrWriter
	}
	backend := btclog.NewBackend(w)

	ecdsaLog := backend.Logger(ecdsaSubsystem)
	ecdsaLog.SetLevel(level)
	ecdsa.UseLogger(ecdsaLog)

	auditLog := backend.Logger(auditSubsystem)
	auditLog.SetLevel(level)
	nonceaudit.UseLogger(auditLog)

	return ctx, nil
}
