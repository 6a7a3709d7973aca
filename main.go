package main

import "token-aggregator/cmd"

func main() {
	cmd.Execute()
}
