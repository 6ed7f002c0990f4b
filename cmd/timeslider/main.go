// Command timeslider rewrites map styles and fragments offline
package main

import (
	"context"
	"fmt"
	"os"

	"timeslider/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "timeslider:", err)
		os.Exit(1)
	}
}
