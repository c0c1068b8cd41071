package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"pontos/internal/cli"
)

func main() {
	cli.LoadEnvFile()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
