package main

import (
	"github.com/joho/godotenv"

	"github.com/nextlevelbuilder/thermovote/cmd"
)

func main() {
	// Local development keeps secrets in .env; absence is fine.
	_ = godotenv.Load()
	cmd.Execute()
}
