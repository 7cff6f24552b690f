// Package filter implements the pure search/filter computation over a
// clinic collection. It performs no I/O and is deterministic: identical
// inputs always yield identical outputs.
package filter

import (
	"strings"

	"github.com/dentkazan/clinicdirectory/internal/domain/entities"
)

// Apply returns the subsequence of clinics matching the free-text query and
// the exact-match service tag, preserving the original relative order.
//
// A clinic is included iff the query is empty or a case-insensitive
// substring of its name or address, AND the service filter is empty or an
// exact element of its services.
func Apply(clinics []entities.Clinic, query, service string) []entities.Clinic {
	if query == "" && service == "" {
		return clinics
	}

	needle := strings.ToLower(query)
	matched := make([]entities.Clinic, 0, len(clinics))
	for _, clinic := range clinics {
		if !matchesQuery(clinic, needle) {
			continue
		}
		if service != "" && !hasService(clinic, service) {
			continue
		}
		matched = append(matched, clinic)
	}
	return matched
}

// Services returns the ordered union of service tags across the
// collection, first occurrence wins.
func Services(clinics []entities.Clinic) []string {
	seen := map[string]struct{}{}
	services := []string{}
	for _, clinic := range clinics {
		for _, service := range clinic.Services {
			if _, ok := seen[service]; ok {
				continue
			}
			seen[service] = struct{}{}
			services = append(services, service)
		}
	}
	return services
}

func matchesQuery(clinic entities.Clinic, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(clinic.Name), needle) ||
		strings.Contains(strings.ToLower(clinic.Address), needle)
}

func hasService(clinic entities.Clinic, service string) bool {
	for _, s := range clinic.Services {
		if s == service {
			return true
		}
	}
	return false
}
