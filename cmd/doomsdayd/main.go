package main

import "github.com/LeJamon/goDoomsday/internal/cli"

func main() {
	cli.Execute()
}
