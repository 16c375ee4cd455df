package repository

import (
	"github.com/jackc/pgx/v5"
)

// Tables names the knowledge and video tables of one deployment mode.
type Tables struct {
	Knowledge string
	Videos    string
}

var (
	productionTables  = Tables{Knowledge: "knowledge_base_prod", Videos: "videosprod"}
	developmentTables = Tables{Knowledge: "knowledge_base", Videos: "videos"}
)

// TablesFor selects the tables of an environment. Only "production" reads the
// production tables.
func TablesFor(environment string) Tables {
	if environment == "production" {
		return productionTables
	}
	return developmentTables
}

func quoteIdent(name string) string {
	return pgx.Identifier{name}.Sanitize()
}
