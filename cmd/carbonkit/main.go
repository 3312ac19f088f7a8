package main

import "github.com/offsetlab/carbonkit/internal/cli"

func main() {
	cli.Execute()
}
