package main

import "github.com/maxvaer/corsprobe/cmd"

func main() {
	cmd.Execute()
}
