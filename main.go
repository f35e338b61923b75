package main

import "heat1d/cmd"

func main() {
	cmd.Execute()
}
