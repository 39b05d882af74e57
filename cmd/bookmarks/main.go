package main

import (
	"context"
	"log"

	"github.com/MrSnakeDoc/bookmarks/internal/app"
)

func main() {
	a, err := app.New(context.Background())
	if err != nil {
		log.Fatalf("❌ bookmarks failed to start: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("❌ bookmarks stopped with an error: %v", err)
	}
}
