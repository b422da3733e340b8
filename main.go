/*
Copyright 2025 racelytics
*/

package main

import "github.com/racelytics/competitiveness-analyzer-go/cmd"

func main() {
	cmd.Execute()
}
