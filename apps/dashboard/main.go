package main

import "github.com/sukhrobfullstackdev/magic-dashboard-sub000/internal/cli"

func main() {
	cli.Execute()
}
