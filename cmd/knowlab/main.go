package main

import "github.com/knowlab/knowlab-cli/internal/cli"

func main() {
	cli.Execute()
}
