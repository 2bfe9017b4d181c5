package credibility

import (
	"net/url"
	"strings"

	"research/internal/domain"
)

// ReputationTable is an ordered list of domain substring rules. Lookups scan
// the rules in declaration order and the first rule whose domain is a
// substring of the host wins, so a generic rule declared before a specific
// one shadows it. A table is immutable after construction and safe to share.
type ReputationTable struct {
	entries []domain.ReputationEntry
}

// NewReputationTable copies entries into a new table.
func NewReputationTable(entries []domain.ReputationEntry) *ReputationTable {
	cp := make([]domain.ReputationEntry, len(entries))
	copy(cp, entries)
	return &ReputationTable{entries: cp}
}

// Lookup returns the score of the first rule matching host.
func (t *ReputationTable) Lookup(host string) (domain.ReputationEntry, bool) {
	if host == "" {
		return domain.ReputationEntry{}, false
	}
	for _, e := range t.entries {
		if strings.Contains(host, e.Domain) {
			return e, true
		}
	}
	return domain.ReputationEntry{}, false
}

// Entries returns a copy of the rules in evaluation order.
func (t *ReputationTable) Entries() []domain.ReputationEntry {
	cp := make([]domain.ReputationEntry, len(t.entries))
	copy(cp, t.entries)
	return cp
}

// NetLoc returns the network location of rawURL (userinfo, host and port).
// URLs without a scheme, or that fail to parse, have no network location.
func NetLoc(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	if u.User != nil {
		return u.User.String() + "@" + u.Host
	}
	return u.Host
}
