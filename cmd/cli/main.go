package main

import "codeconnect/cmd/cli/command"

func main() {
	command.Execute()
}
