package main

import (
	"log"

	"ambubot-be/internal/config"
	"ambubot-be/internal/model"
	"ambubot-be/pkg/database"
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, true)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}
	defer database.Close(db)

	log.Println("Running migration: extensions + reference_passages")
	if err := database.Migrate(db, &model.ReferencePassage{}); err != nil {
		log.Fatal("Error: Migration failed:", err)
	}

	// ivfflat needs rows to build useful lists; harmless on an empty table
	indexSQL := `CREATE INDEX IF NOT EXISTS idx_reference_passages_embedding
		ON reference_passages USING ivfflat (embedding_value vector_cosine_ops) WITH (lists = 100);`
	if err := db.Exec(indexSQL).Error; err != nil {
		log.Printf("Warn: Failed to create vector index: %v", err)
	}

	log.Println("Migration finished")
}
