// Package main provides the watchlist CLI.
package main

import "github.com/mesh-intelligence/watchlist/internal/cli"

func main() {
	cli.Execute()
}
