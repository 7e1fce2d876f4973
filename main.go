package main

import "github.com/klytics/sheetpipe/cmd"

func main() {
	cmd.Execute()
}
