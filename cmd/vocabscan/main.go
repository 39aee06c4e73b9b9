package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	err := newRootCommand().Execute()
	if err == nil {
		return
	}
	// Ctrl-C already prints nothing; the summary line covers it.
	if !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "vocabscan:", err)
	}
	os.Exit(1)
}
