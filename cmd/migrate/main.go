package main

import (
	"fmt"
	"os"

	"wedding-site-api/internal/cli"
)

func main() {
	if err := cli.NewMigrateCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}
