package main

import "wealth-planner/cmd"

func main() {
	cmd.Execute()
}
