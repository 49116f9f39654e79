// Package main is the entry point for the knowledge base API server.
package main

func main() {
	Execute()
}
