package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/qoslab/qregctl/internal/config"
	"github.com/qoslab/qregctl/internal/observability"
	"github.com/qoslab/qregctl/internal/server"

	_ "github.com/qoslab/qregctl/internal/backend/stabilizer"
	_ "github.com/qoslab/qregctl/internal/backend/steane"
)

func main() {
	configPath := flag.String("config", "", "path to qregd config.toml")
	initConfig := flag.String("init-config", "", "write a starter config.toml to this path and exit")
	flag.Parse()

	if *initConfig != "" {
		if err := config.WriteTemplate(*initConfig, "server", false); err != nil {
			fmt.Fprintf(os.Stderr, "qregd: %v\n", err)
			os.Exit(1)
		}
		return
	}

	observability.InitLogger("qregd")

	cfg := server.DefaultConfig()
	if *configPath != "" {
		loaded, err := loadServiceConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "qregd: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	svc, err := server.NewService(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "qregd: %v\n", err)
		os.Exit(1)
	}
	if err := svc.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "qregd: %v\n", err)
		os.Exit(1)
	}
}
