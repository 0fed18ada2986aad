package main

import "github.com/mcoot/partygames/internal/cli"

func main() {
	cli.Execute()
}
