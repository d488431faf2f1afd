package dataset

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// charmapByName resolves the single-byte encodings we accept, keyed by
// normalized name. UTF-8 variants are handled separately because they can
// reject input; charmap decoding always succeeds.
var charmapByName = map[string]*charmap.Charmap{
	"latin-1":      charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"cp1252":       charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
}

// normalizeEncodingName maps user-facing spellings ("UTF8", "Latin_1") onto
// the canonical registry keys.
func normalizeEncodingName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "_", "-")
	switch n {
	case "utf8":
		return "utf-8"
	case "utf8-sig", "utf-8-bom", "utf8-bom":
		return "utf-8-sig"
	case "latin1":
		return "latin-1"
	case "iso8859-1", "iso-8859-1:1987":
		return "iso-8859-1"
	case "windows1252":
		return "windows-1252"
	}
	return n
}

// decode attempts to decode data under a single named encoding, returning
// UTF-8 bytes. Unknown names and undecodable content both error; the
// fallback loop treats either as "try the next one".
func decode(data []byte, name string) ([]byte, error) {
	switch canonical := normalizeEncodingName(name); canonical {
	case "utf-8":
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("content is not valid UTF-8")
		}
		return bytes.TrimPrefix(data, bomUTF8), nil
	case "utf-8-sig":
		if !bytes.HasPrefix(data, bomUTF8) {
			return nil, fmt.Errorf("no UTF-8 byte-order mark")
		}
		stripped := data[len(bomUTF8):]
		if !utf8.Valid(stripped) {
			return nil, fmt.Errorf("content is not valid UTF-8")
		}
		return stripped, nil
	default:
		cm, ok := charmapByName[canonical]
		if !ok {
			return nil, fmt.Errorf("unknown encoding %q", name)
		}
		return decodeCharmap(data, cm)
	}
}

func decodeCharmap(data []byte, cm encoding.Encoding) ([]byte, error) {
	decoded, _, err := transform.Bytes(cm.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("charmap decode: %w", err)
	}
	return decoded, nil
}

// decodeWithFallback tries each encoding in order and returns the first
// clean decode along with the canonical name that succeeded. Exhausting the
// list is a definitive failure naming every attempted encoding.
func decodeWithFallback(data []byte, encodings []string) ([]byte, string, error) {
	for _, name := range encodings {
		decoded, err := decode(data, name)
		if err != nil {
			continue
		}
		return decoded, normalizeEncodingName(name), nil
	}
	return nil, "", fmt.Errorf("unreadable under every configured encoding (tried %s)", strings.Join(encodings, ", "))
}
