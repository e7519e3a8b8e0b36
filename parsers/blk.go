package parsers

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/maldun/UltraMekCore/models"
)

// blkRoot wraps the fields of a .blk file so the result is one XML tree
const blkRoot = "ultramekdata"

// blkExcluded are format metadata fields dropped from the record
var blkExcluded = map[string]bool{
	"block_version": true,
	"version":       true,
}

// BLKToXML turns pseudo-markup into well-formed XML text: comments are
// stripped, bare ampersands escaped, the body wrapped in a root element and
// every tag normalized.
func BLKToXML(text string) string {
	var b strings.Builder
	b.WriteString("<" + blkRoot + ">\n")
	for _, line := range strings.Split(text, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		b.WriteString(strings.ReplaceAll(line, "&", "&amp;"))
		b.WriteByte('\n')
	}
	b.WriteString("</" + blkRoot + ">")
	return NormalizeTags(b.String())
}

// ParseBLK decodes a pseudo-markup (.blk) document into a record of typed
// leaves. Malformed tag nesting is fatal.
func ParseBLK(text string) (*models.Record, error) {
	dec := xml.NewDecoder(strings.NewReader(BLKToXML(text)))

	rec := models.NewRecord(models.FormatBLK)
	var (
		depth   int
		current string
		leaf    strings.Builder
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line, _ := dec.InputPos()
			// the synthetic root occupies the first line
			return nil, malformed(models.FormatBLK, max(line-1, 0), "tag tree", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 2 {
				current = t.Name.Local
				leaf.Reset()
			}
		case xml.EndElement:
			if depth == 2 && !blkExcluded[current] {
				rec.Set(current, leafValue(leaf.String()))
			}
			depth--
		case xml.CharData:
			if depth == 2 {
				leaf.Write(t)
			}
		}
	}

	if depth != 0 {
		return nil, malformed(models.FormatBLK, 0, "unterminated tag tree", nil)
	}
	return rec, nil
}

// ParseBLKFile reads and decodes a .blk file
func ParseBLKFile(path string) (*models.Record, error) {
	text, err := readFile(models.FormatBLK, path)
	if err != nil {
		return nil, err
	}
	return ParseBLK(text)
}

// leafValue trims a leaf and coerces it; multi-line leaves become an
// ordered sequence of their non-blank lines.
func leafValue(raw string) any {
	val := strings.TrimSpace(raw)
	if !strings.Contains(val, "\n") {
		return coerceLeaf(val)
	}

	lines := strings.Split(val, "\n")
	seq := make([]any, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			seq = append(seq, coerceLeaf(line))
		}
	}
	return seq
}
