package main

import "github.com/staybnb/webserver/cmd"

func main() {
	cmd.Execute()
}
