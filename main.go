package main

import "github.com/luisrivasnoriega/pawn-appetit-sub001/internal/cli"

func main() {
	cli.Execute()
}
