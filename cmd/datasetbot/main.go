// Package main provides the entry point for the datasetbot CLI.
//
// datasetbot is a Telegram bot that searches public dataset catalogs and
// bundles a staging directory into a ZIP archive on request.
//
// Usage:
//
//	datasetbot serve
//	datasetbot search <query>
//	datasetbot bundle [dir] -o bundle.zip
//
// See --help for all available options.
package main

func main() {
	Execute()
}
