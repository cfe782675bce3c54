package util

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"modernc.org/sqlite"
)

// CaseFoldFunctionName is the SQL name of the unicode aware lower-casing function.
// The builtin lower() only folds ASCII.
const CaseFoldFunctionName = "casefold"

func init() {
	sqlite.MustRegisterFunction(CaseFoldFunctionName, &sqlite.FunctionImpl{
		NArgs:         1,
		Deterministic: true,
		Scalar:        caseFold,
	})
}

func caseFold(ctx *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	case int64, float64:
		return fmt.Sprint(v), nil
	default:
		return nil, fmt.Errorf("invalid type: %T", args[0])
	}
}
