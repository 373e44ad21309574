package main

import "github.com/wellsgz/vigil/internal/cli"

func main() {
	cli.Execute()
}
