package anthropic

import (
	"errors"

	sdk "github.com/anthropics/anthropic-sdk-go"
)

// StatusCode returns the HTTP status code of an API error anywhere in
// err's chain, or 0 when the error did not come from the API.
func StatusCode(err error) int {
	var apierr *sdk.Error
	if errors.As(err, &apierr) {
		return apierr.StatusCode
	}
	return 0
}
