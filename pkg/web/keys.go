package web

type contextKey string

// UserIDKey is the context key under which auth middleware stores the
// authenticated subject.
const UserIDKey = contextKey("userID")

const requestIDKey = contextKey("requestID")
