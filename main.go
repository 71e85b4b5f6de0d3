package main

import "github.com/Mohsinsiddi/bn8004/cmd"

func main() {
	cmd.Execute()
}
