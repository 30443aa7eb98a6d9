// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

// JSON Schemas for the staging artifacts. Deliberately lax about extra
// fields so schema checks survive additive changes; they exist to catch
// truncated or hand-mangled files, not to freeze the format.

const rawEmailSchema = `{
	"type": "object",
	"required": ["uid", "from", "subject"],
	"properties": {
		"uid": {"type": "string", "minLength": 1},
		"from": {"type": "string"},
		"subject": {"type": "string"},
		"body_text": {"type": "string"},
		"body_html": {"type": "string"},
		"fingerprint": {"type": "string"}
	}
}`

const parsedLeadsSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["type", "email_uid", "lead_index"],
		"properties": {
			"type": {"enum": ["job_lead", "not_job", "unresolved"]},
			"email_uid": {"type": "string", "minLength": 1},
			"lead_index": {"type": "integer", "minimum": 0},
			"company": {"type": "string"},
			"role": {"type": "string"},
			"confidence": {"type": "number", "minimum": 0, "maximum": 1}
		}
	}
}`

const sourcedResultSchema = `{
	"type": "object",
	"required": ["lead", "status"],
	"properties": {
		"status": {"enum": ["sourced", "unresolved"]},
		"lead": {
			"type": "object",
			"required": ["email_uid"],
			"properties": {
				"email_uid": {"type": "string", "minLength": 1}
			}
		},
		"scraped": {
			"type": "object",
			"properties": {
				"url": {"type": "string"},
				"description_text": {"type": "string"}
			}
		},
		"unresolved_reason": {"type": "string"}
	}
}`

const scoredLeadSchema = `{
	"type": "object",
	"required": ["company", "role", "score_result"],
	"properties": {
		"company": {"type": "string"},
		"role": {"type": "string"},
		"score_result": {
			"type": "object",
			"required": ["overall"],
			"properties": {
				"overall": {"enum": ["strong", "good", "stretch", "long_shot"]},
				"match_percentage": {"type": "number", "minimum": 0, "maximum": 100},
				"strong_count": {"type": "integer", "minimum": 0},
				"partial_count": {"type": "integer", "minimum": 0},
				"gap_count": {"type": "integer", "minimum": 0}
			}
		},
		"matches": {"type": "array"}
	}
}`
