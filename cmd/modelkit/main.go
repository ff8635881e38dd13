// Package main is the entry point for the modelkit command line tool.
package main

func main() {
	Execute()
}
