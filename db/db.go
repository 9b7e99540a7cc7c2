package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS

// Schemas holds the JSON Schemas request bodies are validated against.
//
//go:embed schemas/*.json
var Schemas embed.FS
