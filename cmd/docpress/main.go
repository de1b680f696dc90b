package main

import "docpress/internal/cli"

func main() {
	cli.Execute()
}
