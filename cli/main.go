package main

import "ocm.software/open-component-model/bindle/cli/cmd"

func main() {
	cmd.Execute()
}
