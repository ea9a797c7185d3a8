package main

import "github.com/mcoot/cs2coach/internal/cli"

func main() {
	cli.Execute()
}
