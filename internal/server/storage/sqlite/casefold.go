package sqlite

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"modernc.org/sqlite"
)

// casefoldFunc lowercases its argument with Unicode rules. Built-in LIKE
// and lower() only fold ASCII, so term search compares casefold(column)
// against a pattern folded the same way in Go.
const casefoldFunc = "casefold"

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(casefoldFunc, 1, casefold)
}

func casefold(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return nil, fmt.Errorf("%s: unsupported argument type %T", casefoldFunc, v)
	}
}

// foldTerm prepares a term for comparison with casefold(column)
func foldTerm(term string) string {
	return strings.ToLower(term)
}
