package main

import "os"

func main() {
	os.Exit(1) // want `os.Exit call is forbidden in main function: os.Exit\(1\)`
}

func helper() {
	os.Exit(2)
}
