package main

import "github.com/dotnetappdev/renameit/internal/cmd"

func main() {
	cmd.Execute()
}
