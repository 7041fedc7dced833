package main

import (
	"fmt"
	"os"

	"github.com/torven/breaker/cmd/vis/app"
)

func main() {
	if err := app.Cmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
