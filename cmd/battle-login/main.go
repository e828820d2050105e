// Package main logs into the battle API and writes the token key file.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	logincmd "github.com/louisbranch/battlebot/internal/cmd/login"
	entrypoint "github.com/louisbranch/battlebot/internal/platform/cmd"
	"github.com/louisbranch/battlebot/internal/platform/config"
)

func main() {
	cfg, err := logincmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix(entrypoint.LogPrefix(entrypoint.ServiceLogin))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := logincmd.Run(ctx, cfg, os.Stdin, os.Stdout); err != nil {
		config.Exitf("battle-login: %v", err)
	}
}
