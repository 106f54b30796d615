package core

// Logger logs messages along with any number of extra values.
// Extra values are usually an error, a map[string]interface{} of fields or the *http.Request being served.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
