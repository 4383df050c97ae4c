package main

import "ProfileAggregator/pkg/commands"

func main() {
	commands.Execute()
}
