package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/mydiary/internal/app"
	"github.com/dmitrijs2005/mydiary/internal/config"
)

func main() {

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	a, err := app.NewApp(ctx, cfg, os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer a.Close()

	if err := a.RunViewer(ctx); err != nil {
		log.Printf("%v", err)
	}

}
