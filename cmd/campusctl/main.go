package main

import "github.com/campus-events/api/cmd/campusctl/cmd"

func main() {
	cmd.Execute()
}
