package main

import "kalshi-alpha/cmd"

func main() {
	cmd.Execute()
}
