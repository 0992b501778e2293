package main

import "github.com/dbsmedya/goslim/cmd/goslim/cmd"

func main() {
	cmd.Execute()
}
