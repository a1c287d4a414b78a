// Package auth implements the authorization code callback as an explicit state machine,
// plus the signed cookie that carries a session id between requests.
//
// # Callback flow
//
// A [Machine] starts in [NoCode] when the request carries no code and in [Exchanging] otherwise.
// [Machine.Step] is the only transition function:
//
//	NoCode      -> redirect to the landing route (terminal)
//	Exchanging  -> Success | Failure
//	Success     -> redirect to a safe next path or the success route (terminal)
//	Failure     -> redirect to the error route with ?error= (terminal)
//
// The exchange is delegated to an [Exchanger], which [oauth2.Config] satisfies, so the machine
// can be driven in tests without a network. A panic inside the exchanger is recovered and treated
// as [Failure]. Nothing is retried.
//
// # Session cookie
//
// [SessionCodec] signs the session id into an HS256 JWT with an expiry. The token only names a
// server side session row; it never carries provider tokens.
package auth
