package main

import "github.com/oshokin/stopwatch/cmd/stopwatch-ctl/cmd"

func main() {
	cmd.Execute()
}
