package payment

import "errors"

var ErrUpstream = errors.New("payment gateway failure")
