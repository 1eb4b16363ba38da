package main

import "github.com/waybarutils/waybar-system-health/cmd/waybar-system-health/cmd"

func main() {
	cmd.Execute()
}
