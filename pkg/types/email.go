// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared data model for the job application pipeline:
// raw emails, extracted leads, scraped postings, requirement scores, and the
// per-stage configuration structs.
package types

import "time"

// ForwardInfo annotates a RawEmail with recovered forwarding metadata.
// It is computed at fetch time from quoting headers in the body; the
// original sender drives sender-template lookup downstream.
type ForwardInfo struct {
	IsForwarded bool `json:"is_forwarded"`

	// OriginalFrom is the sender recovered from the forward header
	// (Gmail "Forwarded message" or Outlook From:/Sent:/To:/Subject: block).
	// Equal to the wrapper sender when the email is not a forward.
	OriginalFrom string `json:"original_from"`

	// OriginalSubject is the subject with the Fwd:/FW: prefix removed,
	// or the subject recovered from the forward header when present.
	OriginalSubject string `json:"original_subject"`

	// OriginalBodyText is the body content after the forward header.
	OriginalBodyText string `json:"original_body_text,omitempty"`

	// ForwardWrapperFrom is the forwarding account, set only for forwards.
	ForwardWrapperFrom string `json:"forward_wrapper_from,omitempty"`
}

// RawEmail is one fetched email, persisted once per UID to staging/raw/.
// Immutable after the fetch stage writes it.
type RawEmail struct {
	UID       string `json:"uid"`
	From      string `json:"from"`
	To        string `json:"to"`
	Subject   string `json:"subject"`
	Date      string `json:"date"`
	MessageID string `json:"message_id"`
	BodyText  string `json:"body_text"`
	BodyHTML  string `json:"body_html"`

	FetchedAt time.Time `json:"fetched_at"`

	ForwardInfo *ForwardInfo `json:"forward_info,omitempty"`
}

// EmailType is the classifier verdict for a raw email.
type EmailType string

const (
	EmailSingleJob        EmailType = "single_job"
	EmailMultiJob         EmailType = "multi_job"
	EmailRecruiterGeneric EmailType = "recruiter_generic"
	EmailNotJob           EmailType = "not_job"
	EmailUnknown          EmailType = "unknown"
)
