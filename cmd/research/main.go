package main

import "research/internal/cli"

func main() {
	cli.Execute()
}
