package database

import (
	"strconv"

	"github.com/lib/pq"
)

// PostgresGrammar, PostgreSQL lehçesi. Identifier'lar pq.QuoteIdentifier
// ile sarmalanır, placeholder'lar $1, $2... şeklinde numaralanır.
type PostgresGrammar struct {
	sqlGrammar
}

func NewPostgresGrammar() *PostgresGrammar {
	return &PostgresGrammar{sqlGrammar{dialect: dialect{
		name:        "postgres",
		quote:       pq.QuoteIdentifier,
		placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	}}}
}
