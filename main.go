package main

import "relation-matcher/cmd"

func main() {
	cmd.Execute()
}
