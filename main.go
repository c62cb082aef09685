package main

import "github.com/LegacyCodeHQ/ctxmap/cmd"

func main() {
	cmd.Execute()
}
