package main

import "github.com/giygas/cvdrisk-api/cli"

func main() {
	cli.Execute()
}
