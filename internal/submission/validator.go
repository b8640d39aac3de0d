package submission

import (
	"strings"
	"sync"
	"time"
)

// allowedSubtypes are the declared media subtypes a receipt may carry.
// Matching is exact: no case folding, no normalization of the declared
// value.
var allowedSubtypes = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

// FileValidator gates receipt selections on their declared media type.
type FileValidator struct{}

// Accepts reports whether the declared media type of shape "<kind>/<subtype>"
// carries an allowed subtype.
func (FileValidator) Accepts(declaredType string) bool {
	_, subtype, found := strings.Cut(declaredType, "/")
	if !found {
		return false
	}
	_, ok := allowedSubtypes[subtype]
	return ok
}

// DisplayName derives the file's display name from the form value: the
// final segment after splitting on backslash, accommodating path-style
// values from some input sources.
func (FileValidator) DisplayName(value string) string {
	parts := strings.Split(value, `\`)
	return parts[len(parts)-1]
}

// IndicatorAutoHideDelay is how long the wrong-file-type indicator stays
// visible after a rejection.
const IndicatorAutoHideDelay = 2 * time.Second

// ErrorIndicator is the transient wrong-file-type indicator. Show arms a
// fixed-delay auto-hide timer that is never cancelled: a later valid pick
// can race a pending auto-hide, which is cosmetic and accepted.
type ErrorIndicator struct {
	mu      sync.Mutex
	visible bool
	delay   time.Duration
}

// NewErrorIndicator creates a hidden indicator with the standard auto-hide
// delay.
func NewErrorIndicator() *ErrorIndicator {
	return &ErrorIndicator{delay: IndicatorAutoHideDelay}
}

// NewErrorIndicatorWithDelay creates an indicator with a custom auto-hide
// delay.
func NewErrorIndicatorWithDelay(delay time.Duration) *ErrorIndicator {
	return &ErrorIndicator{delay: delay}
}

// Show makes the indicator visible and schedules the auto-hide.
func (i *ErrorIndicator) Show() {
	i.mu.Lock()
	i.visible = true
	i.mu.Unlock()

	time.AfterFunc(i.delay, i.Hide)
}

// Hide makes the indicator invisible. Pending auto-hide timers still fire
// afterwards; hiding twice is a no-op.
func (i *ErrorIndicator) Hide() {
	i.mu.Lock()
	i.visible = false
	i.mu.Unlock()
}

// Visible reports the indicator state.
func (i *ErrorIndicator) Visible() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.visible
}
