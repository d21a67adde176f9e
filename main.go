package main

import "github.com/atikulmunna/clientlog/internal/cmd"

func main() {
	cmd.Execute()
}
