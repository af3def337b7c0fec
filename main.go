package main

import (
	"os"

	"github.com/abhisek/harf/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
