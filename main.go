package main

import "github.com/iksnae/lead-dashboard/cmd"

func main() {
	cmd.Execute()
}
