package main

import "clipmix/cli"

func main() {
	cli.Execute()
}
