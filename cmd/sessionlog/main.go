package main

import (
	"os"

	"github.com/grovetools/sessionlog/cli"
	"github.com/grovetools/sessionlog/cmd"
)

func main() {
	os.Exit(cli.Execute(cmd.NewRootCmd()))
}
