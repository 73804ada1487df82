package main

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/puffgino/bookgen/pkg/config"
)

func main() {
	schema := config.BookSchema()

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling schema: %v", err)
	}

	// Write to schema directory
	dest := filepath.Join("schema", "book.schema.json")
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		log.Fatalf("Error creating schema directory: %v", err)
	}
	if err := os.WriteFile(dest, data, 0644); err != nil {
		log.Fatalf("Error writing schema file: %v", err)
	}

	log.Printf("Successfully generated book schema at %s", dest)
}
