package main

import "github.com/OneNoteDev/onenote-client/cmd"

func main() {
	cmd.Execute()
}
