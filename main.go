package main

import "github.com/agentic-research/sdfpack/cmd"

func main() {
	cmd.Execute()
}
