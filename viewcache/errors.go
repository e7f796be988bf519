package viewcache

import (
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes of configuration errors.
const (
	CodeInvalidWindow    = "INVALID_WINDOW"
	CodeSortNotSupported = "SORT_NOT_SUPPORTED"
	CodeInvalidConfig    = "INVALID_CONFIG"
	CodeIndexOutOfRange  = "INDEX_OUT_OF_RANGE"
)

func configError(code, format string, args ...any) error {
	return goerrors.New(fmt.Sprintf(format, args...), goerrors.CategoryValidation).
		WithTextCode(code)
}

// InvalidWindow reports a malformed offset/limit request.
func InvalidWindow(offset, limit int) error {
	return configError(CodeInvalidWindow, "invalid window offset=%d limit=%d", offset, limit)
}

// IsConfigError reports whether err was raised because a call asked for
// something the cache cannot do. The cache state is unchanged in that case.
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	return goerrors.IsCategory(err, goerrors.CategoryValidation)
}
