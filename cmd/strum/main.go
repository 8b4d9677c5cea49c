package main

import "github.com/strumapp/strum/internal/cli"

func main() {
	cli.Execute()
}
