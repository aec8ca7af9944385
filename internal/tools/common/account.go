package common

import (
	"github.com/RyanLisse/flok/internal/server"
)

// AccountFromArgs extracts the explicit account argument, when present.
func AccountFromArgs(args map[string]interface{}) string {
	if account, ok := args["account"].(string); ok {
		return account
	}
	return ""
}

// ResolveAccount resolves the account a tool call operates on. An explicit
// "account" argument wins; otherwise the server's resolution order applies
// (environment, saved default, single stored account).
func ResolveAccount(sc *server.ServerContext, args map[string]interface{}) (string, error) {
	return sc.ResolveAccount(AccountFromArgs(args))
}
