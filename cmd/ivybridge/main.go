package main

import "ivybridge/internal/cli"

func main() {
	cli.Execute()
}
