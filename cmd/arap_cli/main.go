package main

import "github.com/SscSPs/arap_ledger/internal/cli"

func main() {
	cli.Execute()
}
