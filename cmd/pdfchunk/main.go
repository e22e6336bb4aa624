package main

import (
	"os"

	"github.com/pagesmith/pdfchunk/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
