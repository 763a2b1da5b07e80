package main

import (
	"heavybuilder/internal/app"
	"heavybuilder/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
