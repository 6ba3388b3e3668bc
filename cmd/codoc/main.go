package main

import "codoc/internal/cli"

func main() {
	cli.Execute()
}
