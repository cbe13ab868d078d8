package main

import (
	"os"

	"github.com/deliverydesk/deliverydesk/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
