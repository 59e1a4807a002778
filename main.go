package main

import "belcit-backend/cmd"

func main() {
	cmd.Execute()
}
