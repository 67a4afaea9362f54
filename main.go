package main

import "github.com/ryanping/jsoncrack.com/cmd"

func main() {
	cmd.Execute()
}
