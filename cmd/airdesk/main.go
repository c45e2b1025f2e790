// Package main provides the Airdesk CLI entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/airdesk-ai/airdesk/cmd/airdesk/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
