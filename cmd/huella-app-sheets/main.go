package main

import (
	"context"
	"os"

	"github.com/uhppoted/uhppoted-lib/log"

	"github.com/huellas/huella-app-sheets/commands"
)

func main() {
	if err := commands.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}
