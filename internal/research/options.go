package research

import "time"

// Default budgets and thresholds. NewOptions starts from them, and
// WithDefaults applies them to any field the caller left at (or below) zero.
const (
	DefaultPerSubK          = 3
	DefaultMinHops          = 3
	DefaultMaxHops          = 10
	DefaultCoverThreshold   = 0.5
	DefaultQualityThreshold = 0.5
)

// Options configures one call to Run. The zero value is not meant to be
// used directly -- call NewOptions to get spec defaults, then override.
type Options struct {
	PerSubK          int
	MinHops          int
	MaxHops          int
	CoverThreshold   float64
	QualityThreshold float64
	Adaptive         bool
	Deadline         time.Time // zero means no deadline beyond ctx
}

// NewOptions returns Options populated with spec-mandated defaults.
func NewOptions() Options {
	return Options{
		PerSubK:          DefaultPerSubK,
		MinHops:          DefaultMinHops,
		MaxHops:          DefaultMaxHops,
		CoverThreshold:   DefaultCoverThreshold,
		QualityThreshold: DefaultQualityThreshold,
		Adaptive:         true,
	}
}

// WithDefaults fills any unset (zero-value) numeric field with its spec
// default. Adaptive has no meaningful "unset" zero value distinct from
// false, so it is left exactly as the caller set it.
func (o Options) WithDefaults() Options {
	if o.PerSubK <= 0 {
		o.PerSubK = DefaultPerSubK
	}
	if o.MinHops <= 0 {
		o.MinHops = DefaultMinHops
	}
	if o.MaxHops <= 0 {
		o.MaxHops = DefaultMaxHops
	}
	if o.CoverThreshold <= 0 {
		o.CoverThreshold = DefaultCoverThreshold
	}
	if o.QualityThreshold <= 0 {
		o.QualityThreshold = DefaultQualityThreshold
	}
	return o
}

// Validate checks a (post-default) Options value against a question,
// returning an error wrapping ErrInvalidQuestion on failure.
func (o Options) Validate(question string) error {
	trimmed := trimQuestion(question)
	if trimmed == "" {
		return fieldErr("question is empty after trimming")
	}
	if len(trimmed) > MaxQuestionLength {
		return fieldErr("question exceeds maximum length")
	}
	if o.MinHops > o.MaxHops {
		return fieldErr("min_hops is greater than max_hops")
	}
	if o.PerSubK < 1 {
		return fieldErr("per_sub_k must be at least 1")
	}
	return nil
}

func fieldErr(msg string) error {
	return &invalidQuestionError{msg: msg}
}

type invalidQuestionError struct{ msg string }

func (e *invalidQuestionError) Error() string { return ErrInvalidQuestion.Error() + ": " + e.msg }
func (e *invalidQuestionError) Unwrap() error { return ErrInvalidQuestion }
