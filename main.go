package main

import "github.com/PatrikHajek/time-tracker/cmd"

func main() {
	cmd.Execute()
}
