// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package emailtext

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"
)

// bodyCap bounds how much of a message body is decoded. Job alerts are
// small; anything larger is marketing payload we do not need.
const bodyCap = 6 << 20

// ParseRFC822 extracts the headers and text/HTML bodies from full message
// bytes. It never fails: unparseable input degrades to a plain-text body.
func ParseRFC822(raw []byte, fallbackSubject string) (messageID, bodyText, bodyHTML, subject string) {
	if len(raw) == 0 {
		return "", "", "", fallbackSubject
	}

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return "", string(raw), "", fallbackSubject
	}

	messageID = strings.TrimSpace(msg.Header.Get("Message-Id"))
	if messageID == "" {
		messageID = strings.TrimSpace(msg.Header.Get("Message-ID"))
	}

	subject = DecodeHeader(strings.TrimSpace(msg.Header.Get("Subject")))
	if subject == "" {
		subject = fallbackSubject
	}

	bodyRaw, _ := io.ReadAll(io.LimitReader(msg.Body, bodyCap))
	bodyText, bodyHTML = textParts(mail.Header(msg.Header), bodyRaw)

	if bodyText == "" && bodyHTML == "" {
		bodyText = string(bodyRaw)
	}
	return messageID, bodyText, bodyHTML, subject
}

// textParts walks a MIME tree and returns the longest text/plain and
// text/html parts, skipping attachments.
func textParts(h mail.Header, body []byte) (plain, htmlPart string) {
	cte := strings.ToLower(strings.TrimSpace(h.Get("Content-Transfer-Encoding")))

	mediaType, params, err := mime.ParseMediaType(h.Get("Content-Type"))
	if err != nil {
		return string(decodeTransfer(body, cte)), ""
	}
	mediaType = strings.ToLower(mediaType)

	if strings.HasPrefix(mediaType, "multipart/") {
		boundary := params["boundary"]
		if boundary == "" {
			return string(decodeTransfer(body, cte)), ""
		}

		mr := multipart.NewReader(bytes.NewReader(body), boundary)
		var bestPlain, bestHTML string
		for {
			p, err := mr.NextPart()
			if err != nil {
				break
			}
			if strings.Contains(strings.ToLower(p.Header.Get("Content-Disposition")), "attachment") {
				continue
			}

			partCTE := strings.ToLower(strings.TrimSpace(p.Header.Get("Content-Transfer-Encoding")))
			partMedia, _, _ := mime.ParseMediaType(p.Header.Get("Content-Type"))
			partMedia = strings.ToLower(partMedia)

			b, _ := io.ReadAll(io.LimitReader(p, bodyCap))
			b = decodeTransfer(b, partCTE)

			switch {
			case strings.HasPrefix(partMedia, "multipart/"):
				pl, ht := textParts(mail.Header(p.Header), b)
				if len(pl) > len(bestPlain) {
					bestPlain = pl
				}
				if len(ht) > len(bestHTML) {
					bestHTML = ht
				}
			case strings.HasPrefix(partMedia, "text/plain"):
				if len(b) > len(bestPlain) {
					bestPlain = string(b)
				}
			case strings.HasPrefix(partMedia, "text/html"):
				if len(b) > len(bestHTML) {
					bestHTML = string(b)
				}
			}
		}
		return bestPlain, bestHTML
	}

	s := decodeTransfer(body, cte)
	if strings.HasPrefix(mediaType, "text/html") {
		return "", string(s)
	}
	return string(s), ""
}

func decodeTransfer(b []byte, cte string) []byte {
	switch cte {
	case "base64":
		dec := base64.NewDecoder(base64.StdEncoding, bytes.NewReader(b))
		out, _ := io.ReadAll(io.LimitReader(dec, bodyCap))
		return out
	case "quoted-printable":
		dec := quotedprintable.NewReader(bytes.NewReader(b))
		out, _ := io.ReadAll(io.LimitReader(dec, bodyCap))
		return out
	default:
		return b
	}
}

// DecodeHeader decodes RFC 2047 encoded-words in a header value, returning
// the input unchanged when decoding fails.
func DecodeHeader(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	dec := new(mime.WordDecoder)
	out, err := dec.DecodeHeader(s)
	if err != nil {
		return s
	}
	return out
}
