package main

import "artify-me/cmd"

func main() {
	cmd.Execute()
}
