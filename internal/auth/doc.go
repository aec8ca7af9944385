// Package auth implements OAuth2 device-code authentication and the token
// lifecycle for the Microsoft identity platform.
//
// Three pieces cooperate:
//
//   - DeviceCodeFlow drives the wire protocol: request a device-code
//     challenge, poll the token endpoint until the user completes
//     authentication, and exchange refresh tokens.
//   - Manager owns cached TokenSets per account, decides when a cached
//     token is usable (5-minute expiry buffer), refreshes or falls back to
//     re-authentication, and serializes concurrent refresh per account.
//   - Store is the persistence contract; FileStore keeps one 0600 JSON
//     file per account under the user cache directory.
//
// Accounts resolves which account a command acts on: explicit flag, the
// FLOK_ACCOUNT environment variable, the persisted default, or the only
// stored account.
//
// # Example Usage
//
//	store := auth.NewFileStore(dir)
//	flow := auth.NewDeviceCodeFlow(clientID, "common", nil)
//	manager := auth.NewManager(store, flow)
//
//	account, err := manager.Login(ctx, "default", func(code, uri, msg string) {
//	    fmt.Println(msg)
//	})
//
//	token, err := manager.AccessToken(ctx, account)
package auth
