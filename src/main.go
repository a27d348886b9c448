package main

import (
	_ "github.com/inkwell-press/inkwell/src/migration"
	"github.com/inkwell-press/inkwell/src/server"
)

func main() {
	server.ServerCommand.Execute()
}
