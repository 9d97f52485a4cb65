package main

import "github.com/appuio/symbiont-demo/cmd"

func main() {
	cmd.Execute()
}
