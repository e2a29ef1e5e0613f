package main

import "github.com/ndlife/go-ndlife/cmd/ndlife/cmd"

func main() {
	cmd.Execute()
}
