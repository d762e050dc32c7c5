package request

import "net/http"

// ClientWriter is a http.ResponseWriter that remembers the status code written to it.
type ClientWriter struct {
	http.ResponseWriter

	statusCode  int
	wroteHeader bool
}

// NewClientWriter wraps w. The status code defaults to 200 until one is written.
func NewClientWriter(w http.ResponseWriter) *ClientWriter {
	return &ClientWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

// WriteHeader implements the http.ResponseWriter interface. Only the first call is passed on.
func (c *ClientWriter) WriteHeader(code int) {
	if c.wroteHeader {
		return
	}
	c.statusCode = code
	c.wroteHeader = true
	c.ResponseWriter.WriteHeader(code)
}

// Write implements the http.ResponseWriter interface.
func (c *ClientWriter) Write(b []byte) (int, error) {
	// Writing a body sends an implicit 200.
	c.wroteHeader = true
	return c.ResponseWriter.Write(b)
}

// StatusCode returns the status code sent to the client.
func (c *ClientWriter) StatusCode() int {
	return c.statusCode
}

// HeaderWritten reports whether the headers have been sent to the client.
func (c *ClientWriter) HeaderWritten() bool {
	return c.wroteHeader
}
