package corexml

import (
	"fmt"
	"io"
	"log/slog"
)

// Dialect selects HTML or XML structural rules.
type Dialect int

const (
	HTML Dialect = iota
	XML
)

func (d Dialect) String() string {
	if d == XML {
		return "xml"
	}
	return "html"
}

// ElementBalancing controls how aggressively the parser repairs
// malformed element nesting.
type ElementBalancing int

const (
	// BalancingNone never consults the element registry or balancer,
	// even in HTML dialect: tags are reported exactly as tokenized.
	BalancingNone ElementBalancing = iota
	// BalancingRequired rejects malformed nesting as a ConfigurationViolation
	// instead of repairing it.
	BalancingRequired
	// BalancingAutoOpenAndClose repairs malformed nesting by synthesizing
	// auto-open/auto-close events. This is the default for HTML dialect.
	BalancingAutoOpenAndClose
)

// Presence expresses whether a construct is required, merely allowed, or
// forbidden in the input.
type Presence int

const (
	PresenceAllowed Presence = iota
	PresenceRequired
	PresenceForbidden
)

// RootElementPresence controls how the unique-root-element rule is
// enforced.
type RootElementPresence int

const (
	RootElementRequired RootElementPresence = iota
	RootElementDependsOnPrologDoctype
)

// Config holds every recognized parser option. Build one with NewConfig
// and a list of Options; the zero value is not valid — always go
// through NewConfig so defaults are applied.
type Config struct {
	Dialect                          Dialect
	CaseSensitive                    bool
	ElementBalancing                 ElementBalancing
	UniqueAttributesInElement        bool
	PrologPresence                   Presence
	XMLDeclarationPresence           Presence
	DoctypePresence                  Presence
	UniqueRootElementPresence        RootElementPresence
	NoUnmatchedCloseElementsRequired bool
	Lenient                          bool

	// Logger receives Debug/Warn diagnostics for lenient-mode recoveries
	// (an unmatched close tag, an implicit auto-close, raw text left
	// unterminated at end-of-input). It never receives an Error-level
	// record for a condition already surfaced as a *ParseError — that
	// would double-report the same failure.
	Logger *slog.Logger
}

// Option configures a Config, following the functional-options style
// used throughout the retrieved corpus for parser configuration.
type Option func(*Config)

// defaultConfig returns the HTML-dialect defaults: case-insensitive
// names, auto-balancing, lenient recovery — the posture a browser-style
// consumer expects.
func defaultConfig() *Config {
	return &Config{
		Dialect:                   HTML,
		CaseSensitive:             false,
		ElementBalancing:          BalancingAutoOpenAndClose,
		UniqueAttributesInElement: false,
		PrologPresence:            PresenceAllowed,
		XMLDeclarationPresence:    PresenceAllowed,
		DoctypePresence:           PresenceAllowed,
		UniqueRootElementPresence: RootElementDependsOnPrologDoctype,
		Lenient:                   true,
		Logger:                    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// NewConfig builds a Config from opts, applied over the HTML defaults.
func NewConfig(opts ...Option) *Config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithDialect selects HTML or XML. Selecting XML also switches case
// sensitivity, balancing (to BalancingRequired), leniency, attribute
// uniqueness and the unique-root rule to the strict-XML posture unless
// overridden by a later option; the presence settings for the prolog,
// XML declaration and DOCTYPE are left unchanged.
func WithDialect(d Dialect) Option {
	return func(c *Config) {
		c.Dialect = d
		if d == XML {
			c.CaseSensitive = true
			c.ElementBalancing = BalancingRequired
			c.Lenient = false
			c.UniqueAttributesInElement = true
			c.UniqueRootElementPresence = RootElementRequired
		}
	}
}

// WithCaseSensitivity overrides name comparison case-sensitivity.
func WithCaseSensitivity(caseSensitive bool) Option {
	return func(c *Config) { c.CaseSensitive = caseSensitive }
}

// WithElementBalancing overrides the element-balancing policy.
func WithElementBalancing(b ElementBalancing) Option {
	return func(c *Config) { c.ElementBalancing = b }
}

// WithUniqueAttributes requires (true) or allows (false) duplicate
// attribute names within one element.
func WithUniqueAttributes(require bool) Option {
	return func(c *Config) { c.UniqueAttributesInElement = require }
}

// WithPrologPresence overrides whether a prolog is required/allowed/forbidden.
func WithPrologPresence(p Presence) Option {
	return func(c *Config) { c.PrologPresence = p }
}

// WithXMLDeclarationPresence overrides the XML declaration presence rule.
func WithXMLDeclarationPresence(p Presence) Option {
	return func(c *Config) { c.XMLDeclarationPresence = p }
}

// WithDoctypePresence overrides the DOCTYPE presence rule.
func WithDoctypePresence(p Presence) Option {
	return func(c *Config) { c.DoctypePresence = p }
}

// WithUniqueRootElement overrides the unique-root-element rule.
func WithUniqueRootElement(p RootElementPresence) Option {
	return func(c *Config) { c.UniqueRootElementPresence = p }
}

// WithNoUnmatchedCloseElements requires (true) that every close tag have
// a matching open tag, surfacing a violation instead of an
// unmatchedClose* event pair.
func WithNoUnmatchedCloseElements(require bool) Option {
	return func(c *Config) { c.NoUnmatchedCloseElementsRequired = require }
}

// WithLenient overrides malformed-structure recovery behavior directly,
// independent of dialect.
func WithLenient(lenient bool) Option {
	return func(c *Config) { c.Lenient = lenient }
}

// WithLogger sets the structured logger used for recoverable-condition
// diagnostics. A nil logger is replaced with a discarding logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		if logger == nil {
			logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		}
		c.Logger = logger
	}
}

// Validate reports a *ParseError of kind ConfigurationViolation if the
// option combination is self-contradictory.
func (c *Config) Validate() error {
	if c.Dialect == XML && c.ElementBalancing == BalancingAutoOpenAndClose {
		return &ParseError{
			Kind: ConfigurationViolation,
			Err:  fmt.Errorf("auto-open/close balancing is an HTML-only recovery strategy, not valid for XML dialect"),
		}
	}
	if c.Logger == nil {
		return &ParseError{Kind: ConfigurationViolation, Err: fmt.Errorf("Logger must not be nil; use WithLogger or leave unset for the default")}
	}
	return nil
}
