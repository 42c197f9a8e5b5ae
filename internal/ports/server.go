package ports

// Server is a long-running front end for the scanning engine. Start must
// return promptly, serving in the background; Stop drains in-flight work.
type Server interface {
	Start() error
	Stop() error
}
