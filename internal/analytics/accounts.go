package analytics

import (
	"slices"
	"strings"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/models"
)

// Registry resolves renamed accounts to their current name. It is built
// once and never mutated, so it is safe for concurrent use.
type Registry struct {
	byFrom     map[string]models.AccountMigration
	formerByTo map[string][]string
	migrations []models.AccountMigration
}

// NewRegistry indexes migrations. When two entries share a source name
// (ignoring case) the last one wins.
func NewRegistry(migrations []models.AccountMigration) *Registry {
	r := &Registry{
		byFrom:     make(map[string]models.AccountMigration, len(migrations)),
		formerByTo: make(map[string][]string),
		migrations: slices.Clone(migrations),
	}
	for _, m := range migrations {
		r.byFrom[strings.ToLower(m.From)] = m
		to := strings.ToLower(m.To)
		r.formerByTo[to] = append(r.formerByTo[to], m.From)
	}
	return r
}

// Migrations returns a copy of the registry entries in their original order.
func (r *Registry) Migrations() []models.AccountMigration {
	if r == nil {
		return nil
	}
	return slices.Clone(r.migrations)
}

// Migration returns the entry renaming name, if any.
func (r *Registry) Migration(name string) (models.AccountMigration, bool) {
	if r == nil {
		return models.AccountMigration{}, false
	}
	m, ok := r.byFrom[strings.ToLower(name)]
	return m, ok
}

// CanonicalName returns the current name for name. Only one hop is
// resolved: with A->B and B->C, "A" resolves to "B".
func (r *Registry) CanonicalName(name string) string {
	if m, ok := r.Migration(name); ok {
		return m.To
	}
	return name
}

// FormerNames returns every source name migrated into canonical, or nil.
func (r *Registry) FormerNames(canonical string) []string {
	if r == nil {
		return nil
	}
	names := r.formerByTo[strings.ToLower(canonical)]
	if len(names) == 0 {
		return nil
	}
	return slices.Clone(names)
}

// TransformAccounts canonicalizes the raw breakdown, sums counts sharing a
// canonical name and sorts by requests descending. Ties keep the order in
// which the canonical name first appeared.
func (r *Registry) TransformAccounts(accounts models.AccountCounts) []models.AgentCount {
	agents := make([]models.AgentCount, 0, len(accounts))
	index := make(map[string]int, len(accounts))

	for _, a := range accounts {
		name := r.CanonicalName(a.Name)
		if i, ok := index[name]; ok {
			agents[i].Requests += a.Requests
			continue
		}
		index[name] = len(agents)
		agents = append(agents, models.AgentCount{Name: name, Requests: a.Requests})
	}

	for i := range agents {
		agents[i].FormerNames = r.FormerNames(agents[i].Name)
	}

	sortAgents(agents)
	return agents
}

func sortAgents(agents []models.AgentCount) {
	slices.SortStableFunc(agents, func(a, b models.AgentCount) int {
		switch {
		case a.Requests > b.Requests:
			return -1
		case a.Requests < b.Requests:
			return 1
		default:
			return 0
		}
	})
}
