package main

import "github.com/iksnae/ragchat/cmd"

func main() {
	cmd.Execute()
}
