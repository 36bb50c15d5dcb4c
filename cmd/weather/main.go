// Command weather synthesizes or reads a year of daily weather observations,
// cleans them, and writes summary tables, charts, a cleaned CSV and a text
// report.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
