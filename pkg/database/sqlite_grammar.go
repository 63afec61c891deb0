package database

// SQLiteGrammar, SQLite lehçesi: çift tırnak identifier, ? placeholder.
type SQLiteGrammar struct {
	sqlGrammar
}

func NewSQLiteGrammar() *SQLiteGrammar {
	return &SQLiteGrammar{sqlGrammar{dialect: dialect{
		name:        "sqlite",
		quote:       func(s string) string { return `"` + s + `"` },
		placeholder: func(int) string { return "?" },
	}}}
}
