package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	botcmd "github.com/greenroomhq/greenroom/internal/cmd/bot"
	"github.com/greenroomhq/greenroom/internal/platform/config"
)

func main() {
	cfg, err := botcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix("[BOT] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := botcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
