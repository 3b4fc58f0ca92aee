package main

import "filmarchiv/cmd"

func main() {
	cmd.Execute()
}
