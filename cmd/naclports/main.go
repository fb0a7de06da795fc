// Package main provides the naclports CLI: the presubmit gate, the build
// configuration resolver and the trybot table.
package main

func main() {
	Execute()
}
