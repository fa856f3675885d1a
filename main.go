package main

import "github.com/frahmantamala/evaluation-platform/cmd"

func main() {
	cmd.Execute()
}
