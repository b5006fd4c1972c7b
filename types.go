package osproto

import "context"

// DecodeOpt bundles per-call decode options.
type DecodeOpt struct {
	// Microversion negotiated for the response. Zero means every field is accepted.
	Microversion Microversion
	// FailFast stops at the first issue instead of collecting all of them.
	FailFast bool
	// OnIssue receives non-fatal issues (unknown_alias). May be nil.
	OnIssue func(Issue)
}

// Apply returns a child context carrying the options.
func (o DecodeOpt) Apply(ctx context.Context) context.Context {
	if !o.Microversion.IsZero() {
		ctx = WithMicroversion(ctx, o.Microversion)
	}
	if o.FailFast {
		ctx = WithFailFast(ctx, true)
	}
	if o.OnIssue != nil {
		ctx = WithIssueSink(ctx, o.OnIssue)
	}
	return ctx
}

type contextKey int

const (
	_ctxKeyFailFast contextKey = iota
	_ctxKeyMicroversion
	_ctxKeyIssueSink
)

// WithFailFast returns a child context that marks fail-fast decoding.
func WithFailFast(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, _ctxKeyFailFast, enabled)
}

// IsFailFast reports whether the current decode should stop on the first issue.
func IsFailFast(ctx context.Context) bool {
	b, _ := ctx.Value(_ctxKeyFailFast).(bool)
	return b
}

// WithMicroversion records the negotiated microversion for decoding.
func WithMicroversion(ctx context.Context, mv Microversion) context.Context {
	return context.WithValue(ctx, _ctxKeyMicroversion, mv)
}

// MicroversionFrom returns the negotiated microversion, or Latest when none was set.
func MicroversionFrom(ctx context.Context) Microversion {
	if mv, ok := ctx.Value(_ctxKeyMicroversion).(Microversion); ok && !mv.IsZero() {
		return mv
	}
	return Latest
}

// WithIssueSink registers a receiver for non-fatal issues.
func WithIssueSink(ctx context.Context, sink func(Issue)) context.Context {
	return context.WithValue(ctx, _ctxKeyIssueSink, sink)
}

// ReportIssue forwards a non-fatal issue to the sink registered on ctx, if any.
func ReportIssue(ctx context.Context, it Issue) {
	if sink, ok := ctx.Value(_ctxKeyIssueSink).(func(Issue)); ok && sink != nil {
		sink(it)
	}
}

// ScopeIssues returns a context whose issue sink rebases paths under prefix.
// Containers call it before decoding a child so that warnings carry the same
// full path as errors. Without a sink ctx is returned unchanged.
func ScopeIssues(ctx context.Context, prefix string) context.Context {
	parent, ok := ctx.Value(_ctxKeyIssueSink).(func(Issue))
	if !ok || parent == nil || prefix == "" {
		return ctx
	}
	return context.WithValue(ctx, _ctxKeyIssueSink, func(it Issue) {
		it.Path = JoinPath(prefix, it.Path)
		parent(it)
	})
}
