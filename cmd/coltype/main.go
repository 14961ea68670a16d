package main

import "github.com/JonMunkholm/coltype/internal/cli"

func main() {
	cli.Execute()
}
