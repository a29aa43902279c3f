package preprocess

import (
	"fmt"
	"regexp"
	"sort"
)

// Pattern is a named class of sensitive values.
type Pattern struct {
	Name        string
	Type        string // placeholder prefix: [IPV4:hash], [EMAIL:hash], ...
	Description string
	Regex       *regexp.Regexp
}

var (
	ipv4Regex = regexp.MustCompile(`\b(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\b`)

	// Every alternative needs either eight groups or a "::", so clock times
	// such as 01:14:00 never match.
	ipv6Regex = regexp.MustCompile(`(?:[0-9a-fA-F]{1,4}:){7}[0-9a-fA-F]{1,4}|(?:[0-9a-fA-F]{1,4}:){1,7}:|(?:[0-9a-fA-F]{1,4}:){1,6}:[0-9a-fA-F]{1,4}|(?:[0-9a-fA-F]{1,4}:){1,5}(?::[0-9a-fA-F]{1,4}){1,2}|(?:[0-9a-fA-F]{1,4}:){1,4}(?::[0-9a-fA-F]{1,4}){1,3}|(?:[0-9a-fA-F]{1,4}:){1,3}(?::[0-9a-fA-F]{1,4}){1,4}|(?:[0-9a-fA-F]{1,4}:){1,2}(?::[0-9a-fA-F]{1,4}){1,5}|[0-9a-fA-F]{1,4}:(?::[0-9a-fA-F]{1,4}){1,6}|:(?::[0-9a-fA-F]{1,4}){1,7}`)

	emailRegex      = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	awsKeyRegex     = regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`)
	apiKeyRegex     = regexp.MustCompile(`(?i)(?:api[_-]?key|apikey|token|secret|password|passwd|pwd)["\s]*[:=]["\s]*[a-zA-Z0-9_\-]{8,}`)
	jwtRegex        = regexp.MustCompile(`\beyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*\b`)
	privateKeyRegex = regexp.MustCompile(`-----BEGIN (?:RSA |EC |DSA |OPENSSH )?PRIVATE KEY-----`)
	macRegex        = regexp.MustCompile(`\b(?:[0-9A-Fa-f]{2}[:-]){5}(?:[0-9A-Fa-f]{2})\b`)
	uuidRegex       = regexp.MustCompile(`\b[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\b`)
)

var builtinPatterns = map[string]Pattern{
	"ipv4":        {Name: "ipv4", Type: "IPV4", Description: "IPv4 addresses", Regex: ipv4Regex},
	"ipv6":        {Name: "ipv6", Type: "IPV6", Description: "IPv6 addresses", Regex: ipv6Regex},
	"email":       {Name: "email", Type: "EMAIL", Description: "Email addresses", Regex: emailRegex},
	"api_key":     {Name: "api_key", Type: "SECRET", Description: "API keys and tokens", Regex: apiKeyRegex},
	"aws_key":     {Name: "aws_key", Type: "AWS_KEY", Description: "AWS Access Key IDs", Regex: awsKeyRegex},
	"jwt":         {Name: "jwt", Type: "JWT", Description: "JWT tokens", Regex: jwtRegex},
	"private_key": {Name: "private_key", Type: "PRIVATE_KEY", Description: "Private key headers", Regex: privateKeyRegex},
	"mac_address": {Name: "mac_address", Type: "MAC", Description: "MAC addresses", Regex: macRegex},
	"uuid":        {Name: "uuid", Type: "UUID", Description: "UUIDs", Regex: uuidRegex},
}

// DefaultPatterns returns the names enabled when the configuration lists
// none.
func DefaultPatterns() []string {
	return []string{"ipv4", "ipv6", "email", "api_key", "aws_key", "jwt", "private_key"}
}

// PatternNames returns every built-in pattern name, sorted.
func PatternNames() []string {
	names := make([]string, 0, len(builtinPatterns))
	for name := range builtinPatterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupPatterns resolves pattern names. An empty list selects the
// defaults; an unknown name is an error.
func LookupPatterns(names []string) ([]Pattern, error) {
	if len(names) == 0 {
		names = DefaultPatterns()
	}

	patterns := make([]Pattern, 0, len(names))
	for _, name := range names {
		p, ok := builtinPatterns[name]
		if !ok {
			return nil, fmt.Errorf("unknown redaction pattern %q (available: %v)", name, PatternNames())
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}
