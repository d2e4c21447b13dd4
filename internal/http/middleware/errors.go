package middleware

import "errors"

var errMissingToken = errors.New("missing or invalid token")
