package humblecli

import (
	"regexp"
	"strconv"
	"strings"
)

// Bundle is one purchased bundle in the library listing.
type Bundle struct {
	Key  string
	Name string
}

// Item is a single downloadable work within a bundle.
type Item struct {
	Number  int
	Name    string
	Formats []string
	Size    string
}

// Key is a redemption key included in a bundle.
type Key struct {
	Number   int
	Name     string
	Redeemed bool
}

// Details is the parsed form of the humble-cli details output.
type Details struct {
	Name      string
	Purchased string
	Amount    string
	TotalSize string
	Items     []Item
	Keys      []Key
}

var (
	metadataPattern  = regexp.MustCompile(`\s*:\s*(.+)`)
	itemsHeaderRe    = regexp.MustCompile(`^\s*#\s*\|\s*Sub-item`)
	keysHeaderRe     = regexp.MustCompile(`^\s*#\s*\|\s*Key Name`)
	itemRowRe        = regexp.MustCompile(`^\s*(\d+)\s*\|\s*([^|]+?)\s*\|\s*([^|]+?)\s*\|\s*(.+)$`)
	keyRowRe         = regexp.MustCompile(`^\s*(\d+)\s*\|\s*([^|]+?)\s*\|\s*(.+)$`)
	keysSectionLabel = "Keys in this bundle:"
)

// parseBundleList parses `humble-cli list --field key --field name` output.
// Each bundle is one "key,name" line; names may themselves contain commas.
func parseBundleList(output string) []Bundle {
	var bundles []Bundle
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		key, name, found := strings.Cut(line, ",")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		name = strings.TrimSpace(name)
		if key == "" || name == "" {
			continue
		}
		bundles = append(bundles, Bundle{Key: key, Name: name})
	}
	return bundles
}

// ParseDetails parses the human-readable `humble-cli details` output into
// structured bundle data.
func ParseDetails(output string) Details {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	return Details{
		Name:      parseBundleName(lines),
		Purchased: parseMetadataField(lines, "Purchased"),
		Amount:    parseMetadataField(lines, "Amount spent"),
		TotalSize: parseMetadataField(lines, "Total size"),
		Items:     parseItemsTable(lines),
		Keys:      parseKeysTable(lines),
	}
}

func parseBundleName(lines []string) string {
	if len(lines) > 0 {
		return strings.TrimSpace(lines[0])
	}
	return ""
}

func parseMetadataField(lines []string, field string) string {
	for _, line := range lines {
		idx := strings.Index(line, field)
		if idx < 0 {
			continue
		}
		if match := metadataPattern.FindStringSubmatch(line[idx+len(field):]); match != nil {
			return strings.TrimSpace(match[1])
		}
	}
	return ""
}

// parseItemsTable extracts rows of the form
//
//	1 | Falcon Guard (Book Three) | MOBI, EPUB |   3.47 MiB
//
// beneath the `# | Sub-item | ...` header. Parsing stops at the first section
// header (a line ending in a colon, such as the keys section).
func parseItemsTable(lines []string) []Item {
	start := -1
	for i, line := range lines {
		if itemsHeaderRe.MatchString(line) {
			start = i + 2 // skip header and separator rows
			break
		}
	}
	if start < 0 || start >= len(lines) {
		return nil
	}

	var items []Item
	for _, line := range lines[start:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasSuffix(line, ":") {
			break
		}
		match := itemRowRe.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		number, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		var formats []string
		for _, format := range strings.Split(match[3], ",") {
			format = strings.ToUpper(strings.TrimSpace(format))
			if format != "" {
				formats = append(formats, format)
			}
		}
		items = append(items, Item{
			Number:  number,
			Name:    strings.TrimSpace(match[2]),
			Formats: formats,
			Size:    strings.TrimSpace(match[4]),
		})
	}
	return items
}

func parseKeysTable(lines []string) []Key {
	sectionStart := -1
	for i, line := range lines {
		if strings.Contains(line, keysSectionLabel) {
			sectionStart = i + 1
			break
		}
	}
	if sectionStart < 0 {
		return nil
	}

	tableStart := -1
	for i := sectionStart; i < len(lines); i++ {
		if keysHeaderRe.MatchString(lines[i]) {
			tableStart = i + 2
			break
		}
	}
	if tableStart < 0 || tableStart >= len(lines) {
		return nil
	}

	var keys []Key
	for _, line := range lines[tableStart:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "Visit") {
			break
		}
		match := keyRowRe.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		number, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		keys = append(keys, Key{
			Number:   number,
			Name:     strings.TrimSpace(match[2]),
			Redeemed: strings.TrimSpace(match[3]) == "Yes",
		})
	}
	return keys
}
