package main

import "github.com/hoppxi/svgpatch/internal/cmd"

func main() {
	cmd.Execute()
}
