package models

import "strings"

// AccountCount is one entry of the upstream accounts breakdown.
type AccountCount struct {
	Name     string
	Requests int64
}

// AccountCounts is the accounts breakdown in document order. Duplicate
// names are allowed and are summed on normalization.
type AccountCounts []AccountCount

// Total returns the sum of all counts.
func (c AccountCounts) Total() int64 {
	var total int64
	for _, a := range c {
		total += a.Requests
	}
	return total
}

// AccountMigration records an account rename.
type AccountMigration struct {
	From       string `yaml:"from" json:"from"`
	To         string `yaml:"to" json:"to"`
	MigratedAt string `yaml:"migratedAt,omitempty" json:"migratedAt,omitempty"`
}

// AgentCount is a canonical agent with its request count or delta.
// FormerNames is nil when the agent was never renamed.
type AgentCount struct {
	Name        string   `json:"name"`
	FormerNames []string `json:"formerNames,omitempty"`
	Requests    int64    `json:"requests"`
}

// HasFormerNames reports whether the agent absorbed renamed accounts.
func (a AgentCount) HasFormerNames() bool {
	return len(a.FormerNames) > 0
}

// DisplayName renders the agent as "Name (formerly A, B)".
func (a AgentCount) DisplayName() string {
	if !a.HasFormerNames() {
		return a.Name
	}
	return a.Name + " (formerly " + strings.Join(a.FormerNames, ", ") + ")"
}
