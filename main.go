package main

import "github.com/frahmantamala/task-gamification/cmd"

func main() {
	cmd.Execute()
}
