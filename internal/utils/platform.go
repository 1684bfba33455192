package utils

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// PlatformUnknown is returned when the link cannot be parsed at all.
	PlatformUnknown = "Unknown"
	// PlatformOther is returned when the link has no usable hostname.
	PlatformOther = "Other"
)

type platform struct {
	host  string
	label string
}

// checked in order, so exact hosts come first and the fallback substring
// scan is deterministic
var knownPlatforms = []platform{
	{"leetcode.com", "LeetCode"},
	{"geeksforgeeks.org", "GeeksforGeeks"},
	{"codechef.com", "CodeChef"},
	{"hackerrank.com", "HackerRank"},
	{"codeforces.com", "Codeforces"},
	{"codingninjas.com", "CodingNinjas"},
	{"interviewbit.com", "InterviewBit"},
	{"atcoder.jp", "AtCoder"},
	{"hackerearth.com", "HackerEarth"},
	{"topcoder.com", "TopCoder"},
}

var exactPlatforms = func() map[string]string {
	m := make(map[string]string, len(knownPlatforms)+2)
	for _, p := range knownPlatforms {
		m[p.host] = p.label
	}
	m["www.leetcode.com"] = "LeetCode"
	m["www.geeksforgeeks.org"] = "GeeksforGeeks"
	return m
}()

// DerivePlatformName maps a question link to a display name for the site it
// points to. Known coding sites get their canonical label, anything else gets
// its first hostname label capitalized.
func DerivePlatformName(link string) string {
	parsed, err := url.Parse(strings.TrimSpace(link))
	if err != nil || parsed.Scheme == "" {
		return PlatformUnknown
	}

	hostname := strings.ToLower(parsed.Hostname())
	if label, ok := exactPlatforms[hostname]; ok {
		return label
	}

	// regional or sub-domain variants such as in.leetcode.cn
	for _, p := range knownPlatforms {
		base := p.host[:strings.Index(p.host, ".")+1]
		if strings.Contains(hostname, base) {
			return p.label
		}
	}

	hostname = strings.TrimPrefix(hostname, "www.")
	first, _, _ := strings.Cut(hostname, ".")
	if first == "" {
		return PlatformOther
	}
	return capitalizeFirst(first)
}

func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
