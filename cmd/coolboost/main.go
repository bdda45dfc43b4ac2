// Package main is the single-binary entrypoint for coolboost.
// coolboost keeps MSI laptops cool by toggling cooler boost through the
// msi-ec kernel driver.
package main

import "github.com/msi-tools/coolboost/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
