package main

import "github.com/comitanigiacomo/kanso-fit-engine/internal/cli"

var version = "dev"

func main() {
	cli.Execute(version)
}
