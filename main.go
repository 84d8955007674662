package main

import "TrackDrop/cmd"

func main() {
	cmd.Execute()
}
