package main

import (
	"errors"
	"fmt"
	"os"
	"time"
)

func main() {
	rootCmd := newRootCmd(os.Stdout, time.Now)
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errProjectionFailed) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
