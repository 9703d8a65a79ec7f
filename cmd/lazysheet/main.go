package main

import (
	"os"

	"github.com/rebeliceyang/lazysheet/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
