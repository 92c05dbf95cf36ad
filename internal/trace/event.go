package trace

import "time"

// Kind tells span boundaries from instant events.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
)

var kindNames = [...]string{"unknown", "begin", "end", "point", "heartbeat"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[0]
}

// Scope is the granularity of an event. A run contains files, a file
// contains one producer job and one policy walk per tree.
type Scope uint8

const (
	ScopeRun Scope = iota + 1
	ScopeFile
	ScopeProducer
	ScopePolicy
)

var scopeNames = [...]string{"unknown", "run", "file", "producer", "policy"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return scopeNames[0]
}

// Event is one record handed to a Tracer.
type Event struct {
	Time     time.Time
	Seq      uint64 // monotonic across the process
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for a root span
	// Track is the chrome timeline lane; spans use their own id.
	Track  uint64
	Name   string // "check", "produce", "walk:<path>"
	Detail string
	Extra  map[string]string
}
