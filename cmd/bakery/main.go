package main

import (
	"github.com/joho/godotenv"

	"github.com/mcoot/bakery2048/internal/cli"
)

func main() {
	// A missing .env file is fine; real environment variables still apply
	_ = godotenv.Load()

	cli.Execute()
}
