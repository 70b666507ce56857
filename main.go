package main

import (
	"cafepick/menuworker/cmd"
)

func main() {
	cmd.Execute()
}
