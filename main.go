package main

import (
	_ "github.com/joho/godotenv/autoload" // load .env before reading OSA_SCROLL_PROFILE

	"github.com/miosa/osa-scroll/cli"
)

func main() {
	cli.Execute()
}
