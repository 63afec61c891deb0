package main

import (
	"os"

	"github.com/ceopag/eloquence-base/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
