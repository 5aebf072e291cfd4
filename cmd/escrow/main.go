package main

import (
	"fmt"
	"os"

	"allweather/internal/cli"
)

func main() {
	if err := cli.Run(cli.NewEscrowCommand, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
