package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"swapbridge/internal/cli"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		cli.PrintError(err)
		os.Exit(1)
	}

	if err := cli.Execute(); err != nil {
		cli.PrintError(err)
		os.Exit(1)
	}
}
