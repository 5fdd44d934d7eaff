package main

import "github.com/rakki194/remove-letterbox/cmd"

func main() {
	cmd.Execute()
}
