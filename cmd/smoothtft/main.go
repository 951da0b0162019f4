package main

import (
	"github.com/matjam/smoothtft/internal/cli"
)

func main() {
	cli.Execute()
}
