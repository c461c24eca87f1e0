// pngme hides, reveals and removes text messages in PNG chunks.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand(defaultStore).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "pngme: %v\n", err)
		os.Exit(1)
	}
}
