package main

import (
	"context"
	"vlr-scraper/cmd/scraper/commands"
)

func main() {
	commands.ExecuteContext(context.Background())
}
