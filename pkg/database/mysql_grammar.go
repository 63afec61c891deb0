package database

// MySQLGrammar, MySQL/MariaDB lehçesi: backtick identifier, ? placeholder.
type MySQLGrammar struct {
	sqlGrammar
}

func NewMySQLGrammar() *MySQLGrammar {
	return &MySQLGrammar{sqlGrammar{dialect: dialect{
		name:        "mysql",
		quote:       func(s string) string { return "`" + s + "`" },
		placeholder: func(int) string { return "?" },
	}}}
}
