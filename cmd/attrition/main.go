package main

import "github.com/liamcoop/attrition/internal/cli"

func main() {
	cli.Execute()
}
