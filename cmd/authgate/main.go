package main

import (
	"context"
	"os"

	"authgate/internal/command"
)

func main() {
	if err := command.RootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
