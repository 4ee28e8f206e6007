package main

import (
	"fmt"
	"os"

	"score-enricher/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "score-enricher: %v\n", err)
		os.Exit(1)
	}
}
