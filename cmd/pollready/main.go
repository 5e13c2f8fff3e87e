package main

import "github.com/pollready/pollready/internal/cli"

func main() {
	cli.Execute()
}
