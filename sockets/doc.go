// Package sockets implements portable TCP and UDP networking.
//
// Provides:
//   - reference-counted Init/Cleanup bracketing all socket use
//   - blocking connect, bind, listen, accept with a strict state machine
//   - partial-transfer send/recv, per-call timeouts, non-blocking mode
//   - datagram addressing via SendTo/RecvFrom
//   - name resolution through the system resolver
//
// OS and resolver failures are folded into the shared platform error
// taxonomy in one place, so callers branch on errors.Code rather than on
// GOOS-specific errno values.
package sockets
