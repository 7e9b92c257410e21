// Command korzina queries the offer catalog from the terminal.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand(openStore).Execute(); err != nil {
		os.Exit(1)
	}
}
