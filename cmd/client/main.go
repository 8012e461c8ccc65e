package main

import "taskkeeper/cmd/client/cmd"

func main() {
	cmd.Execute()
}
