package main

import "github.com/danmalone/pagemeta/cmd"

func main() {
	cmd.Execute()
}
