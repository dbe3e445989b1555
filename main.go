package main

import "github.com/iksnae/ktienda-chat/cmd"

func main() {
	cmd.Execute()
}
