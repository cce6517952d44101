package main

import "thoreinstein.com/census/cmd"

func main() {
	cmd.Execute()
}
