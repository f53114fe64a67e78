// Command ontokit extracts numbers, ordinals, temperatures, amounts of
// money, percentages, durations and times from text.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
