package main

import "github.com/eventsg/backend/cmd/server/cmd"

func main() {
	cmd.Execute()
}
