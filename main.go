package main

import "github.com/Yates-Labs/reelmate/cmd"

func main() {
	cmd.Execute()
}
