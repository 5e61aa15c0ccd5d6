package main

import (
	"fmt"
	"os"

	"github.com/RichardToddFidelis/reporting-backend/config"
	"github.com/RichardToddFidelis/reporting-backend/models"
)

// migrate runs schema migrations and exits. Use it when the API is
// started with SKIP_MIGRATIONS=true so DDL never runs inside a serving
// revision.
func main() {
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized")
		os.Exit(1)
	}

	models.MigrateTable()
	fmt.Println("migrations applied")
}
