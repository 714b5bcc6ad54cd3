package types

import (
	"fmt"
	"regexp"
	"strings"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidHexColor reports whether s is a #RRGGBB color
func ValidHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}

// Mode is the input category that decides which fields end up in a request
type Mode string

const (
	ModeURL   Mode = "url"
	ModeText  Mode = "text"
	ModeWiFi  Mode = "wifi"
	ModeVCard Mode = "vcard"
)

// String returns the wire name of the mode
func (m Mode) String() string {
	return string(m)
}

// Valid reports whether m is one of the known modes
func (m Mode) Valid() bool {
	switch m {
	case ModeURL, ModeText, ModeWiFi, ModeVCard:
		return true
	}
	return false
}

// ErrorCorrection is the QR redundancy level sent to the rendering service
type ErrorCorrection string

const (
	ECLow      ErrorCorrection = "L"
	ECMedium   ErrorCorrection = "M"
	ECQuartile ErrorCorrection = "Q"
	ECHigh     ErrorCorrection = "H"
)

// ErrorCorrectionLevels lists the levels from least to most redundant
var ErrorCorrectionLevels = []ErrorCorrection{ECLow, ECMedium, ECQuartile, ECHigh}

// Label returns a human readable name for the level
func (e ErrorCorrection) Label() string {
	switch e {
	case ECLow:
		return "Low (7%)"
	case ECMedium:
		return "Medium (15%)"
	case ECQuartile:
		return "Quartile (25%)"
	case ECHigh:
		return "High (30%)"
	}
	return string(e)
}

// ParseErrorCorrection accepts either the letter (L/M/Q/H) or the level name
func ParseErrorCorrection(s string) (ErrorCorrection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "low":
		return ECLow, nil
	case "m", "medium":
		return ECMedium, nil
	case "q", "quartile":
		return ECQuartile, nil
	case "h", "high":
		return ECHigh, nil
	}
	return "", fmt.Errorf("unknown error-correction level %q (use L, M, Q or H)", s)
}

// FieldSet maps field names to raw values for a single mode
type FieldSet map[string]string

// Clone returns an independent copy of the field set
func (f FieldSet) Clone() FieldSet {
	if f == nil {
		return nil
	}
	out := make(FieldSet, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// RenderOptions are the rendering settings shared by every mode
type RenderOptions struct {
	ErrorCorrection ErrorCorrection `json:"errorCorrection" yaml:"errorCorrection"`
	Size            int             `json:"size" yaml:"size"`     // pixels per module
	Margin          int             `json:"margin" yaml:"margin"` // quiet zone, in modules
	FgColor         string          `json:"fgColor" yaml:"fgColor"`
	BgColor         string          `json:"bgColor" yaml:"bgColor"`
}

// Size and margin bounds enforced by the input controls and the reference backend
const (
	MinSize   = 1
	MaxSize   = 20
	MinMargin = 0
	MaxMargin = 10

	// TextSoftLimit is the guidance cap for free text, not enforced anywhere
	TextSoftLimit = 500
	// TextWarnThreshold is where the character counter turns into a warning
	TextWarnThreshold = 400
)

// DefaultRenderOptions returns the options a fresh form starts with
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		ErrorCorrection: ECMedium,
		Size:            10,
		Margin:          4,
		FgColor:         "#000000",
		BgColor:         "#ffffff",
	}
}

// GenerationRequest is the payload sent to /api/generate and /api/download.
// It is treated as immutable once built.
type GenerationRequest struct {
	Mode            Mode            `json:"mode" yaml:"mode"`
	Data            FieldSet        `json:"data" yaml:"data"`
	ErrorCorrection ErrorCorrection `json:"errorCorrection" yaml:"errorCorrection"`
	Size            int             `json:"size" yaml:"size"`
	Margin          int             `json:"margin" yaml:"margin"`
	FgColor         string          `json:"fgColor" yaml:"fgColor"`
	BgColor         string          `json:"bgColor" yaml:"bgColor"`
}

// Clone returns a deep copy so callers can hand out snapshots safely
func (r GenerationRequest) Clone() GenerationRequest {
	r.Data = r.Data.Clone()
	return r
}

// GenerationResult is the decoded /api/generate response
type GenerationResult struct {
	Success         bool   `json:"success" yaml:"success"`
	Image           string `json:"image,omitempty" yaml:"image,omitempty"`
	DataString      string `json:"dataString,omitempty" yaml:"dataString,omitempty"`
	CharCount       int    `json:"charCount,omitempty" yaml:"charCount,omitempty"`
	ErrorCorrection string `json:"errorCorrection,omitempty" yaml:"errorCorrection,omitempty"`
	Error           string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Profile describes a rendering backend the client can talk to
type Profile struct {
	Name    string            `json:"name"`
	BaseURL string            `json:"baseUrl"`
	Headers map[string]string `json:"headers,omitempty"`
	TLS     *TLSConfig        `json:"tls,omitempty"`
	Timeout string            `json:"timeout,omitempty"` // Go duration, empty means transport default
}

// TLSConfig contains TLS/mTLS settings for the rendering backend connection
type TLSConfig struct {
	CertFile           string `json:"certFile,omitempty" yaml:"certFile,omitempty"`
	KeyFile            string `json:"keyFile,omitempty" yaml:"keyFile,omitempty"`
	CAFile             string `json:"caFile,omitempty" yaml:"caFile,omitempty"`
	InsecureSkipVerify bool   `json:"insecureSkipVerify,omitempty" yaml:"insecureSkipVerify,omitempty"`
}

// Session represents ephemeral session state
type Session struct {
	ActiveProfile string `json:"activeProfile,omitempty"`
	LastMode      Mode   `json:"lastMode,omitempty"`
}
