package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "ecdsa",
		Usage: "secp256k1 ECDSA keys, signatures and nonce audits",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Logging level (trace, debug, info, warn, error, critical, off)",
				Value: "info",
			},
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			keygenCommand(),
			signCommand(),
			verifyCommand(),
			demoCommand(),
			auditCommand(),
		},
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
