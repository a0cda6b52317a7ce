package main

import "github.com/wyomingwade/slapaman/cmd/slapaman/cmd"

func main() {
	cmd.Execute()
}
