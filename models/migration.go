package models

import (
	"log"

	"github.com/RichardToddFidelis/reporting-backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Event{}, &EventGroup{},
		&Report{}, &ReportModifier{},
		&Job{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
