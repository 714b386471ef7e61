package main

import "moss/cmd"

func main() {
	cmd.Execute()
}
