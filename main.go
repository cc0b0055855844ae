package main

import "github.com/darmiel/cftools/cmd"

func main() {
	cmd.Execute()
}
