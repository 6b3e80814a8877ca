package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/EmmChriss/msc/cli"
	"github.com/EmmChriss/msc/log"
)

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)
	if err != nil {
		log.Error(
			"run failed",
			slog.Any("error", err),
		) // slog uses LogValue
		os.Exit(1)
	}
}
