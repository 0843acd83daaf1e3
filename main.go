package main

import (
	"os"

	"github.com/loxlang/golox/cmd"
)

func main() {
	app := cmd.NewLoxApp(os.Stdin, os.Stdout, os.Stderr)
	os.Exit(app.Main(os.Args[1:]))
}
