package main

import "github.com/goksnair/resume-builder-ai-sub005/internal/cli"

func main() {
	cli.Execute()
}
