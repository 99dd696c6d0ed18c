package main

import (
	"fmt"
	"os"

	"shiftboard/internal/app"
)

func main() {
	cli := app.New()
	if err := cli.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "shiftboard: %v\n", err)
		os.Exit(1)
	}
}
