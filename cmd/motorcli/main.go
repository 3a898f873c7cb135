package main

//go-build: CGO_ENABLED=0

import (
	"github.com/oscarg356/motorbench/pkg/cli/sh"

	_ "github.com/oscarg356/motorbench/pkg/cli/cmds/motor"
)

func main() {
	sh.Main()
}
