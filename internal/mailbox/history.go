package mailbox

import (
	"net/mail"
	"strings"

	"github.com/dvasyliev/cv-responder/internal/hunter"
)

// History is the set of email addresses the sender has already contacted,
// keyed by lowercased address. It is the dedup boundary: a candidate whose
// address is in the set is never selected again.
type History map[string]struct{}

func (h History) Add(addr string) {
	addr = strings.ToLower(strings.TrimSpace(addr))
	if addr == "" {
		return
	}
	h[addr] = struct{}{}
}

func (h History) Contains(addr string) bool {
	_, ok := h[strings.ToLower(strings.TrimSpace(addr))]
	return ok
}

func (h History) Len() int {
	return len(h)
}

// Eligible returns the candidates never contacted before, preserving order.
func (h History) Eligible(candidates []*hunter.Candidate) []*hunter.Candidate {
	eligible := make([]*hunter.Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		if h.Contains(candidate.Email) {
			continue
		}
		eligible = append(eligible, candidate)
	}
	return eligible
}

// AddHeaderRecipients parses an RFC 5322 "To" header value and records every
// address mentioned in it. Unparseable headers are ignored.
func (h History) AddHeaderRecipients(to string) {
	to = strings.TrimSpace(to)
	if to == "" {
		return
	}

	addrs, err := mail.ParseAddressList(to)
	if err != nil {
		return
	}

	for _, addr := range addrs {
		h.Add(addr.Address)
	}
}
