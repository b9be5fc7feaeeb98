package main

import "github.com/citeworks/ghcite/cmd"

func main() {
	cmd.Execute()
}
