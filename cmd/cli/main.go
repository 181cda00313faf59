package main

import (
	"os"

	_ "github.com/mattn/go-sqlite3"

	cli "metacat/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
