// Command preorderbot runs the Magnitron-2 pre-order Telegram bot.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/magnitronlab/preorder-bot/core/buildinfo"
	corecmd "github.com/magnitronlab/preorder-bot/core/cmd"
	"github.com/magnitronlab/preorder-bot/internal/app"
)

func main() {
	showVersion := flag.Bool("version", false, "print build version and exit")
	flag.Parse()
	if *showVersion {
		fmt.Println(buildinfo.String())
		return
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf(".env not loaded: %v", err)
	}

	err := corecmd.Run(corecmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return app.LoadConfig(path)
		},
		Bootstrap: func(ctx context.Context, cfg corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			return app.Bootstrap(ctx, cfg.(*app.Config))
		},
	})
	if err != nil {
		log.Printf("preorderbot: %v", err)
		os.Exit(1)
	}
}
