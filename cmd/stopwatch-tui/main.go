package main

import "github.com/oshokin/stopwatch/cmd/stopwatch-tui/cmd"

func main() {
	cmd.Execute()
}
