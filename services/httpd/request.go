// Package httpd is a one-connection-at-a-time HTTP endpoint: it parses only
// the request line and always answers 200 with an HTML page.
package httpd

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"envnode-go/errcode"
	"envnode-go/x/mathx"
)

// Request is the decoded first line of one connection.
type Request struct {
	Method string
	Path   string
	// Query holds the parameters whose value parsed as an integer, clamped
	// into 0..255. Empty and non-numeric values are dropped.
	Query map[string]int
	Peer  string
}

// Channel returns the query value for key, if present.
func (r Request) Channel(key string) (uint8, bool) {
	v, ok := r.Query[key]
	if !ok {
		return 0, false
	}
	return uint8(v), true
}

// ParseRequestLine decodes "METHOD /path?k=v&k=v PROTO" from the start of
// raw. The returned Request is usable even when err is non-nil.
func ParseRequestLine(raw []byte) (Request, error) {
	req := Request{Query: map[string]int{}}

	s := string(raw)
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "�")
	}
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i]
	}
	parts := strings.Fields(s)
	if len(parts) < 2 || !strings.HasPrefix(parts[1], "/") {
		return req, &errcode.E{C: errcode.MalformedRequest, Op: "httpd.parse", Msg: "bad request line"}
	}
	req.Method = parts[0]
	target := parts[1]
	req.Path = target
	if i := strings.IndexByte(target, '?'); i >= 0 {
		req.Path = target[:i]
		parseQuery(target[i+1:], req.Query)
	}
	return req, nil
}

func parseQuery(q string, into map[string]int) {
	for _, pair := range strings.Split(q, "&") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			// Integers too wide for int still saturate like any other.
			var ne *strconv.NumError
			if !errors.As(err, &ne) || ne.Err != strconv.ErrRange {
				continue
			}
			n = 255
			if strings.HasPrefix(v, "-") {
				n = 0
			}
		}
		into[k] = int(mathx.Byte(n))
	}
}
