package main

import "github.com/foxseedlab/rokuon/cmd/rokuon/commands"

func main() {
	commands.Execute()
}
