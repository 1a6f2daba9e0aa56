package psqlbuilder

import "github.com/Masterminds/squirrel"

// psql statement builder with PostgreSQL placeholders ($1, $2, ...)
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Select starts a SELECT query
func Select(columns ...string) squirrel.SelectBuilder {
	return psql.Select(columns...)
}

// Insert starts an INSERT query
func Insert(table string) squirrel.InsertBuilder {
	return psql.Insert(table)
}

// Update starts an UPDATE query
func Update(table string) squirrel.UpdateBuilder {
	return psql.Update(table)
}

// Delete starts a DELETE query
func Delete(table string) squirrel.DeleteBuilder {
	return psql.Delete(table)
}
