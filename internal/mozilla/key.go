package mozilla

import (
	"strings"

	"github.com/joaohenggeler/web-cache-exporter-sub001/internal/urlutil"
)

// Key is the parsed form of a v2 entry key: the recovered URL, lossily (a
// literal ":" inside the URL was replaced with "+" by Firefox itself and
// that substitution is not reversed here — an intentional, documented
// loss of fidelity), plus the partition key's "scheme://host" recovered
// from the origin-attributes property, if any.
type Key struct {
	URL          string
	PartitionKey string
}

// ParseKey ports cache_mozilla.cpp's mozilla_v2_key_parse: the key is a
// comma-separated list of typed properties. The final property begins
// with ":" and is the URL. A property beginning with "O^" carries
// "&"-separated origin-attribute k=v pairs; "partitionKey" is one such
// pair, of the percent-encoded form "(scheme,host)" or
// "(scheme,host,port)".
func ParseKey(key string) Key {
	var result Key

	for _, property := range strings.Split(key, ",") {
		switch {
		case strings.HasPrefix(property, "O^"):
			result.PartitionKey = parseOriginAttributes(strings.TrimPrefix(property, "O^"))
		case strings.HasPrefix(property, ":"):
			result.URL = strings.TrimPrefix(property, ":")
		}
	}

	return result
}

func parseOriginAttributes(attributes string) string {
	for _, attribute := range strings.Split(attributes, "&") {
		key, value, ok := partition(attribute, "=")
		if !ok || key != "partitionKey" {
			continue
		}
		decoded := urlutil.Decode(value, false)
		decoded = strings.TrimPrefix(decoded, "(")
		decoded = strings.TrimSuffix(decoded, ")")
		parts := strings.Split(decoded, ",")
		if len(parts) >= 2 {
			return parts[0] + "://" + parts[1]
		}
	}
	return ""
}
