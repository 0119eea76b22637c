package router

import (
	"errors"
	"fmt"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes carried by errors produced by this package.
const (
	TextCodePatternEmpty           = "PATTERN_EMPTY"
	TextCodePatternEmptyParam      = "PATTERN_EMPTY_PARAM"
	TextCodePatternWildcardNotLast = "PATTERN_WILDCARD_NOT_LAST"
	TextCodeRouteConflict          = "ROUTE_CONFLICT"
	TextCodeCapabilityDisabled     = "CAPABILITY_DISABLED"
	TextCodeRouteNotRegistered     = "ROUTE_NOT_REGISTERED"
)

func newPatternError(message, textCode, pattern string, index int) error {
	metadata := map[string]any{
		"pattern": pattern,
	}
	if index >= 0 {
		metadata["segment_index"] = index
	}
	return goerrors.New(message, goerrors.CategoryValidation).
		WithCode(http.StatusBadRequest).
		WithTextCode(textCode).
		WithMetadata(metadata)
}

func newEmptyPatternError(pattern string) error {
	return newPatternError("pattern is empty", TextCodePatternEmpty, pattern, -1)
}

func newEmptyParamError(pattern string, index int) error {
	msg := fmt.Sprintf("pattern %q has an empty parameter name at segment %d", pattern, index)
	return newPatternError(msg, TextCodePatternEmptyParam, pattern, index)
}

func newWildcardNotLastError(pattern string, index int) error {
	msg := fmt.Sprintf("pattern %q: ** wildcard must be the last segment", pattern)
	return newPatternError(msg, TextCodePatternWildcardNotLast, pattern, index)
}

func newCapabilityError(capability string) error {
	msg := fmt.Sprintf("router capability %q is disabled", capability)
	return goerrors.New(msg, goerrors.CategoryValidation).
		WithCode(http.StatusPreconditionFailed).
		WithTextCode(TextCodeCapabilityDisabled).
		WithMetadata(map[string]any{
			"capability": capability,
		})
}

func newRouteNotRegisteredError(id RouteID) error {
	msg := fmt.Sprintf("route %q is not registered", id)
	return goerrors.New(msg, goerrors.CategoryRouting).
		WithCode(http.StatusNotFound).
		WithTextCode(TextCodeRouteNotRegistered).
		WithMetadata(map[string]any{
			"route_id": string(id),
		})
}

// hasTextCode reports whether err wraps a go-errors error with code.
func hasTextCode(err error, code string) bool {
	var rich *goerrors.Error
	if !errors.As(err, &rich) {
		return false
	}
	return rich.TextCode == code
}

// IsParseError reports whether err came from ParsePattern.
func IsParseError(err error) bool {
	return hasTextCode(err, TextCodePatternEmpty) ||
		hasTextCode(err, TextCodePatternEmptyParam) ||
		hasTextCode(err, TextCodePatternWildcardNotLast)
}

// IsConflictError reports whether err is a route conflict.
func IsConflictError(err error) bool {
	return hasTextCode(err, TextCodeRouteConflict)
}

// IsCapabilityError reports whether err was caused by a disabled capability.
func IsCapabilityError(err error) bool {
	return hasTextCode(err, TextCodeCapabilityDisabled)
}

// BlockReason explains why a navigation did not commit.
type BlockReason string

const (
	BlockNone               BlockReason = ""
	BlockBeforeLeave        BlockReason = "before_leave_blocked"
	BlockGuard              BlockReason = "guard_blocked"
	BlockRouteMissing       BlockReason = "route_missing"
	BlockNoHistory          BlockReason = "no_history"
	BlockRedirectLimit      BlockReason = "redirect_limit"
	BlockCapabilityDisabled BlockReason = "capability_disabled"
	BlockInProgress         BlockReason = "navigation_in_progress"
)

func (r BlockReason) String() string {
	return string(r)
}

func (r BlockReason) status() int {
	switch r {
	case BlockRouteMissing:
		return http.StatusNotFound
	case BlockInProgress:
		return http.StatusConflict
	case BlockRedirectLimit:
		return http.StatusLoopDetected
	case BlockCapabilityDisabled:
		return http.StatusPreconditionFailed
	case BlockNoHistory:
		return http.StatusBadRequest
	default:
		return http.StatusForbidden
	}
}

// Error converts a reason into a go-errors value. BlockNone yields nil.
func (r BlockReason) Error(metadata map[string]any) error {
	if r == BlockNone {
		return nil
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadata["reason"] = string(r)
	return goerrors.New("navigation blocked: "+string(r), goerrors.CategoryRouting).
		WithCode(r.status()).
		WithTextCode(string(r)).
		WithMetadata(metadata)
}

// BlockReasonFromError extracts the reason from an error returned by
// DispatchResult.Err.
func BlockReasonFromError(err error) (BlockReason, bool) {
	var rich *goerrors.Error
	if !errors.As(err, &rich) {
		return BlockNone, false
	}
	switch r := BlockReason(rich.TextCode); r {
	case BlockBeforeLeave, BlockGuard, BlockRouteMissing, BlockNoHistory,
		BlockRedirectLimit, BlockCapabilityDisabled, BlockInProgress:
		return r, true
	}
	return BlockNone, false
}
