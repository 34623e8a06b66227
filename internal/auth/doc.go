// Package auth implements the identity gate for the facility map.
//
// Authentication is deliberately lightweight: every identity shares a
// single password from configuration, and a fixed delay is applied to
// each attempt so response timing does not leak whether the password
// matched. Successful attempts yield an HS256 JWT carrying the
// identity; floor grants are resolved from configuration on each
// request rather than embedded in the token.
package auth
