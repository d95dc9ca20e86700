package main

import "github.com/OpenTraceLab/OpenTraceHarness/cmd/wireviz/cmd"

func main() {
	cmd.Execute()
}
