package main

import "github.com/theirongolddev/zone5/cmd"

func main() {
	cmd.Execute()
}
