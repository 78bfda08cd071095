// Package main is the local entry point of the EduVerse backend. Serverless
// deployments enter through api/ instead; running this binary serves the same
// application object on 0.0.0.0:$PORT.
package main

import "eduverse/cmd"

func main() {
	cmd.Execute()
}
