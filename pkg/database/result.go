package database

import (
	"database/sql"
)

// -----------------------------------------------------------------------------
// RESULT HELPERS
// -----------------------------------------------------------------------------
// sql.Rows'u []map[string]interface{} biçimine dönüştürür. []byte değerler
// string'e çevrilir (MySQL driver'ı metin kolonları []byte döner).
// -----------------------------------------------------------------------------

func rowsToMaps(rows *sql.Rows) ([]map[string]interface{}, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	res := make([]map[string]interface{}, 0)

	for rows.Next() {
		columns := make([]interface{}, len(cols))
		columnPointers := make([]interface{}, len(cols))
		for i := range columns {
			columnPointers[i] = &columns[i]
		}

		if err := rows.Scan(columnPointers...); err != nil {
			return nil, err
		}

		m := make(map[string]interface{}, len(cols))
		for i, colName := range cols {
			val := *columnPointers[i].(*interface{})
			if b, ok := val.([]byte); ok {
				val = string(b)
			}
			m[colName] = val
		}

		res = append(res, m)
	}

	return res, rows.Err()
}
