package main

import "github.com/itsmostafa/versealign/cmd"

func main() {
	cmd.Execute()
}
