package main

import "github.com/rwreynolds/stampcollect/internal/cli"

func main() {
	cli.Execute()
}
