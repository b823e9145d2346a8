package main

import "github.com/VoxDroid/shipr/cmd"

func main() {
	cmd.Execute()
}
