package main

import "github.com/Diegoval-Dev/R-Lab2/emitter/cmd/emitter/cmd"

func main() {
	cmd.Execute()
}
