package main

import "github.com/killallgit/agentchat/cmd"

func main() {
	cmd.Execute()
}
