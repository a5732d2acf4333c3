package main

import "github.com/flowmesh/nodeconf/cmd/nodeconf/cmd"

func main() {
	cmd.Execute()
}
