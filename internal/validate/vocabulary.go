// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"regexp"

	"github.com/pdiddy/rfc-engine/pkg/types"
)

const (
	weightGeneric = 1
	weightDomain  = 2
	weightActor   = 3
)

var stopWords = toSet(
	"the", "and", "that", "this", "with", "from", "for", "are", "was", "were",
	"its", "has", "have", "had", "not", "any", "all", "but", "nor", "yet", "one",
	"via", "per", "into", "onto", "also", "been", "being", "does", "each", "such",
	"them", "they", "their", "there", "these", "those", "will", "would", "can",
	"could", "only", "other", "some", "what", "before", "after", "about", "over",
	"under", "between", "because", "while", "where", "when", "which", "who",
	"whom", "why", "how", "you", "your", "our", "out", "then", "than", "it's",
	"must", "shall", "should", "may", "required", "optional", "recommended",
)

// actorTerms name the parties a requirement binds. Plural forms are
// normalized to these before lookup.
var actorTerms = toSet(
	"client", "server", "sender", "receiver", "endpoint", "peer", "proxy",
	"intermediary", "recipient", "origin", "gateway", "browser", "implementation",
	"initiator", "responder", "router", "host", "user", "agent", "cache",
)

var domainTerms = toSet(
	"frame", "mask", "masked", "masking", "unmasked", "encrypt", "encrypted",
	"encryption", "unencrypted", "header", "handshake", "connection", "message",
	"payload", "opcode", "extension", "protocol", "request", "response", "status",
	"close", "closing", "ping", "pong", "fragment", "fragmented", "key", "nonce",
	"token", "certificate", "tls", "authentication", "authenticate",
	"authenticated", "validate", "validation", "verify", "verification",
	"signature", "cookie", "uri", "url", "port", "stream", "packet", "datagram",
	"session", "cipher", "hash", "checksum", "timeout", "retransmit", "error",
	"utf-8", "octet", "byte", "length", "field", "data", "binary", "text",
	"subprotocol", "version", "method", "redirect", "compression",
)

// levelConflicts lists, for a statement level, the requirement levels it
// contradicts.
var levelConflicts = map[types.RequirementLevel][]types.RequirementLevel{
	types.LevelMay:            {types.LevelMust, types.LevelMustNot, types.LevelShall, types.LevelShallNot, types.LevelRequired},
	types.LevelOptional:       {types.LevelMust, types.LevelMustNot, types.LevelShall, types.LevelShallNot, types.LevelRequired},
	types.LevelShould:         {types.LevelMustNot, types.LevelShallNot},
	types.LevelRecommended:    {types.LevelMustNot, types.LevelShallNot},
	types.LevelShouldNot:      {types.LevelMust, types.LevelShall, types.LevelRequired},
	types.LevelNotRecommended: {types.LevelMust, types.LevelShall, types.LevelRequired},
	types.LevelMust:           {types.LevelMustNot, types.LevelShallNot},
	types.LevelShall:          {types.LevelMustNot, types.LevelShallNot},
	types.LevelRequired:       {types.LevelMustNot, types.LevelShallNot},
	types.LevelMustNot:        {types.LevelMust, types.LevelShall, types.LevelRequired},
	types.LevelShallNot:       {types.LevelMust, types.LevelShall, types.LevelRequired},
}

// verbPair couples an action with the surface forms that deny it.
// Positive forms are word-initial stems; negatives are matched anywhere.
type verbPair struct {
	name      string
	positive  *regexp.Regexp
	negatives []*regexp.Regexp
}

func pair(name, positive string, negatives ...string) verbPair {
	vp := verbPair{name: name, positive: regexp.MustCompile(`(?i)\b(?:` + positive + `)`)}
	for _, n := range negatives {
		vp.negatives = append(vp.negatives, regexp.MustCompile(`(?i)`+n))
	}
	return vp
}

var verbPairs = []verbPair{
	pair("mask", `mask`,
		`\bunmask`, `without\s+mask`, `\bnot\s+mask`, `\bno\s+masking`, `\bnever\s+mask`),
	pair("encrypt", `encrypt`,
		`\bunencrypted`, `without\s+encrypt`, `\bnot\s+encrypt`, `\bno\s+encryption`, `\bplain\s?text`, `\bcleartext`, `in\s+the\s+clear`),
	pair("validate", `validat`,
		`\bskip(?:s|ped|ping)?\s+(?:the\s+)?validation`, `\bno\s+validation`, `without\s+validat`, `\bnot\s+validat`, `\bunvalidated`),
	pair("verify", `verif`,
		`\bskip(?:s|ped|ping)?\s+(?:the\s+)?verification`, `\bno\s+verification`, `without\s+verif`, `\bnot\s+verif`, `\bunverified`),
	pair("authenticate", `authenticat`,
		`\bunauthenticated`, `without\s+authenticat`, `\bnot\s+authenticat`, `\bno\s+authentication`, `\banonymous`),
	pair("send", `send|sent`,
		`\bnot\s+sen[dt]`, `\bnever\s+sen[dt]`, `without\s+sending`, `refrains?\s+from\s+sending`, `\bwithholds?`),
	pair("receive", `receiv`,
		`\bnot\s+receiv`, `\bnever\s+receiv`, `without\s+receiving`, `\bignor`, `\bdiscard`),
	pair("accept", `accept`,
		`\breject`, `\brefus`, `\bnot\s+accept`, `\bunacceptable`, `\bden(?:y|ies)`),
	pair("include", `includ`,
		`\bomit`, `\bexclud`, `\bnot\s+includ`, `without\s+includ`, `\bleaves?\s+out`),
	pair("support", `support`,
		`\bunsupported`, `\bnot\s+support`, `\blacks?\s+support`, `\bno\s+support`, `\bdrops?\s+support`),
	pair("allow", `allow`,
		`\bdisallow`, `\bforbid`, `\bprohibit`, `\bnot\s+allow`, `\bblocks?\b`),
	pair("enable", `enabl`,
		`\bdisabl`, `\bnot\s+enabl`, `\bturns?\s+off`),
	pair("close", `clos`,
		`\bnot\s+clos`, `\bnever\s+clos`, `\b(?:keeps?|leaves?|remains?|stays?)\b[^.]*\bopen\b`),
	pair("open", `open`,
		`\bnot\s+open`, `\bnever\s+open`, `\bclos(?:e|es|ed|ing)\b`),
}

func toSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
