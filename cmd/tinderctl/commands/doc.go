// Package commands defines the tinderctl CLI.
//
// Commands
//
//   - authorize  Exchange Facebook credentials for a session token
//   - recs       List recommendations
//   - account    Show the authorized account
//   - user       Show a user profile
//   - updates    Fetch matches and messages changed since a date
//   - message    Send a message to a match
//   - like       Like a user
//   - pass       Pass on a user
//   - status     Fetch account and recommendations concurrently
//
// # Configuration
//
// The root command loads the optional config file (--config or TINDER_CONFIG),
// then applies TINDER_BASE_URL and TINDER_AUTH_TOKEN, then flags. Every
// command prints the response body as indented JSON on stdout. Logs go to
// stderr; LOG_LEVEL=debug shows one line per attempt, LOG_FORMAT=json
// switches to JSON lines.
package commands
