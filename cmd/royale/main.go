package main

import "github.com/mcoot/battle-royale/internal/cli"

func main() {
	cli.Execute()
}
