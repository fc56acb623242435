package main

import "github.com/nikbrunner/pagemark/internal/cli"

func main() {
	cli.Execute()
}
