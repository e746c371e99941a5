package main

import (
	"os"

	"iris-chat/backend/internal/app"
)

func main() {
	os.Exit(app.Run())
}
