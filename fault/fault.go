//
// (C) Copyright 2018-2022 Intel Corporation.
//
// SPDX-License-Identifier: BSD-2-Clause-Patent
//

// Package fault provides a structured error type which carries a stable
// code, a description of the problem and, where possible, a resolution
// that can be shown to the user.
package fault

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/rayleyva/eden/fault/code"
)

const (
	// UnknownDomainStr defines the default domain used when one isn't set.
	UnknownDomainStr = "unknown"
	// ResolutionUnknown is shown when a fault doesn't have a resolution.
	ResolutionUnknown = "no known resolution"
	// ResolutionEmpty is used when the resolution is intentionally blank.
	ResolutionEmpty = "no resolution provided"
)

// UnknownFault represents an unspecified fault.
var UnknownFault = &Fault{
	Domain:      UnknownDomainStr,
	Code:        code.Unknown,
	Description: "unknown fault",
	Resolution:  ResolutionUnknown,
}

// Fault represents a well-known error specific to a domain,
// along with an optional resolution for the error.
type Fault struct {
	Domain      string
	Code        code.Code
	Description string
	Reason      string
	Resolution  string
}

func sanitizeDomain(domain string) string {
	if domain == "" {
		return UnknownDomainStr
	}
	return strings.NewReplacer(" ", "_", ":", "_").Replace(domain)
}

func (f *Fault) fmtDescription() string {
	if f.Reason == "" {
		return f.Description
	}
	return fmt.Sprintf("%s (%s)", f.Description, f.Reason)
}

func (f *Fault) Error() string {
	if f.Description == "" && f.Code == code.Unknown && f.Domain == "" {
		return UnknownFault.Error()
	}
	return fmt.Sprintf("%s: code = %d description = %q",
		sanitizeDomain(f.Domain), f.Code, f.fmtDescription())
}

// Equals attempts to compare the given error to this one. If they both
// resolve to a Fault, then they are compared by their Code and
// Description values.
func (f *Fault) Equals(raw error) bool {
	other, ok := errors.Cause(raw).(*Fault)
	if !ok || other == nil {
		return false
	}

	return f.Code == other.Code && f.Description == other.Description
}

// Is allows a Fault to be matched with errors.Is() from the standard
// library.
func (f *Fault) Is(raw error) bool {
	return f.Equals(raw)
}

// WithReason returns a copy of the fault with the Reason field set.
func (f *Fault) WithReason(reason string) *Fault {
	nf := *f
	nf.Reason = reason
	return &nf
}

// IsFault indicates whether or not the error is a *Fault.
func IsFault(err error) bool {
	_, ok := errors.Cause(err).(*Fault)
	return ok
}

// HasResolution indicates whether or not the error has a resolution
// that can be displayed.
func HasResolution(err error) bool {
	f, ok := errors.Cause(err).(*Fault)
	if !ok {
		return false
	}
	return f.Resolution != "" && f.Resolution != ResolutionUnknown
}

// ShowResolutionFor attempts to return a resolution string for the
// supplied error.
func ShowResolutionFor(err error) string {
	f, ok := errors.Cause(err).(*Fault)
	if !ok || !HasResolution(f) {
		return fmt.Sprintf("%s: code = %d resolution = %q",
			UnknownFault.Domain, UnknownFault.Code, ResolutionUnknown)
	}

	return fmt.Sprintf("%s: code = %d resolution = %q",
		sanitizeDomain(f.Domain), f.Code, f.Resolution)
}
