package main

import "migration-audit/cmd"

func main() {
	cmd.Execute()
}
