package main

import "github.com/MERAprojects/ops-utils/vrfctl/cmd"

func main() {
	cmd.Execute()
}
