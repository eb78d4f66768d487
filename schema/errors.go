package schema

import "github.com/omniql-engine/sqlkit/errs"

func unknownColumn(table, name string) error {
	return errs.New(errs.UnknownTableColumn, "table %q has no column %q", table, name)
}
