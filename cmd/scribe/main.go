package main

import (
	"log"

	"github.com/MrSnakeDoc/scribe/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ scribe failed to start: %v", err)
	}
}
