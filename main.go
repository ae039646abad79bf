package main

import (
	"os"

	"github.com/glanceapp/datepicker/internal/glance"
)

func main() {
	os.Exit(glance.Main())
}
