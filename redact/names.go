package redact

import (
	"regexp"
	"strings"
)

// Common first names for the strict-policy denylist. Deliberately short and
// skewed toward unambiguous given names; words that double as ordinary
// English ("will", "grace", "mark") are left out to limit false positives.
var commonFirstNames = []string{
	"james", "mary", "robert", "patricia", "john", "jennifer", "michael",
	"linda", "david", "elizabeth", "william", "barbara", "richard", "susan",
	"joseph", "jessica", "thomas", "sarah", "charles", "karen", "christopher",
	"lisa", "daniel", "nancy", "matthew", "sandra", "anthony", "ashley",
	"steven", "emily", "andrew", "michelle", "joshua", "amanda", "kevin",
	"melissa", "brian", "deborah", "george", "stephanie", "timothy", "rebecca",
	"ronald", "laura", "jason", "helen", "edward", "cynthia", "jeffrey",
	"margaret", "ryan", "kathleen", "jacob", "samantha", "nicholas", "katherine",
	"jonathan", "christine", "alice", "bob", "carol", "eve",
}

// nameRE matches any denylisted first name as a case-insensitive whole word.
var nameRE = regexp.MustCompile(`(?i)\b(` + strings.Join(commonFirstNames, "|") + `)\b`)
