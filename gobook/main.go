package main

import "github.com/ocfl-archive/gobook/gobook/cmd"

func main() {
	cmd.Execute()
}
