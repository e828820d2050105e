// Package main starts the battle mining loop.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	battlecmd "github.com/louisbranch/battlebot/internal/cmd/battle"
	entrypoint "github.com/louisbranch/battlebot/internal/platform/cmd"
)

func main() {
	cfg, err := battlecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix(entrypoint.LogPrefix(entrypoint.ServiceBattle))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := battlecmd.Run(ctx, cfg); err != nil {
		log.Fatalf("battle: %v", err)
	}
}
