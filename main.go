package main

import "github.com/pomokit/pomokit/cmd"

func main() {
	cmd.Execute()
}
