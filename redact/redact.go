// Copyright 2025 Planweave
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package redact

import (
	"fmt"
	"regexp"
)

// Policy selects which PII detectors run.
type Policy string

const (
	// PolicyOff disables scanning entirely; input passes through unchanged.
	PolicyOff Policy = "off"
	// PolicyStandard runs only the high-confidence detectors:
	// email, SSN, and credit card. Phone numbers are not redacted in
	// standard mode; the pattern collides with too many non-PII numbers.
	PolicyStandard Policy = "standard"
	// PolicyStrict runs all detectors, including phone numbers and a
	// common-first-name denylist. Name matching is best-effort and
	// low-precision, which is why only the strictest policy enables it.
	PolicyStrict Policy = "strict"
)

// ParsePolicy converts a string to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyOff, PolicyStandard, PolicyStrict:
		return Policy(s), nil
	}
	return "", fmt.Errorf("unknown redaction policy %q", s)
}

// PII tag values recorded in Result.Tags and persisted alongside rows.
const (
	TagEmail      = "EMAIL"
	TagSSN        = "SSN"
	TagCreditCard = "CREDIT_CARD"
	TagPhone      = "PHONE"
	TagName       = "NAME"
)

// Result holds the redacted text and the deduplicated set of PII categories
// found, in detector order.
type Result struct {
	Clean string
	Tags  []string
}

type detector struct {
	tag        string
	re         *regexp.Regexp
	strictOnly bool
}

// Detector order is a behavioral contract, not a convenience: each detector
// scans the previous detector's output, so a card-shaped substring inside an
// email local-part is already gone by the time the card detector runs. Do not
// reorder.
var detectors = []detector{
	{tag: TagEmail, re: regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)},
	{tag: TagSSN, re: regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
	{tag: TagCreditCard, re: regexp.MustCompile(`\b\d{4}[ \-]?\d{4}[ \-]?\d{4}[ \-]?\d{4}\b`)},
	{tag: TagPhone, re: regexp.MustCompile(`(\+?1[ .\-]?)?\(?\d{3}\)?[ .\-]?\d{3}[ .\-]?\d{4}\b`), strictOnly: true},
	{tag: TagName, re: nameRE, strictOnly: true},
}

// Redact scans text for sensitive patterns according to the policy and
// replaces every match with a typed [REDACTED:<TAG>] placeholder.
// It never fails: empty input yields an empty clean string and no tags, and
// PolicyOff returns the input untouched without scanning.
func Redact(text string, policy Policy) Result {
	if policy == PolicyOff || text == "" {
		return Result{Clean: text, Tags: []string{}}
	}

	clean := text
	tags := []string{}

	for _, d := range detectors {
		if d.strictOnly && policy != PolicyStrict {
			continue
		}
		if !d.re.MatchString(clean) {
			continue
		}
		clean = d.re.ReplaceAllString(clean, "[REDACTED:"+d.tag+"]")
		tags = append(tags, d.tag)
	}

	return Result{Clean: clean, Tags: tags}
}
