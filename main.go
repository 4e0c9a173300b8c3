package main

import "github.com/killallgit/madchat/cmd"

func main() {
	cmd.Execute()
}
