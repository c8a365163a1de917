package api

// Envelope is the uniform response wrapper returned by every backend
// endpoint: {code, message?, data?}.
type Envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
}

// The backend uses two success conventions: domain endpoints (trades,
// reviews, notifications, otp) answer 1000, the follow/report endpoints
// answer 200. The split looks accidental upstream, so success is normalized
// to one predicate here instead of being checked per call site.
const (
	CodeOK       = 1000
	CodeOKLegacy = 200
)

// OK reports whether the envelope carries a success code.
func (e *Envelope[T]) OK() bool {
	return e.Code == CodeOK || e.Code == CodeOKLegacy
}
