package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ContainerRecord identifies one instance of the target version found in a
// listing. Subversion is the trailing integer that distinguishes instances
// of the same version.
type ContainerRecord struct {
	Name       string
	Subversion int
}

// ContainerName renders the <version>-mc-<subversion> naming convention.
func ContainerName(version string, subversion int) string {
	return fmt.Sprintf("%s-mc-%d", version, subversion)
}

// FindLatest scans listing text for names of the form
// <targetVersion>-mc-<integer> and returns the record with the highest
// subversion, compared numerically. Ties keep the first occurrence.
// Returns ErrContainerNotFound when nothing matches.
//
// FindLatest performs no I/O; the caller supplies the listing text.
func FindLatest(listingText, targetVersion string) (ContainerRecord, error) {
	pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(targetVersion) + `-mc-(\d+)\b`)

	var best ContainerRecord
	found := false
	for _, line := range strings.Split(listingText, "\n") {
		m := pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		sub, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if !found || sub > best.Subversion {
			best = ContainerRecord{Name: m[0], Subversion: sub}
			found = true
		}
	}

	if !found {
		return ContainerRecord{}, fmt.Errorf("%w: %s", ErrContainerNotFound, targetVersion)
	}
	return best, nil
}
