package main

import "github.com/praetorian-inc/ssmhosts/cmd"

func main() {
	cmd.Execute()
}
