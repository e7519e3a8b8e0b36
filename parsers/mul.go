package parsers

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/maldun/UltraMekCore/models"
)

// Tag and attribute names of the .mul dialect. Tags compare case-insensitively.
const (
	mulEntityTag   = "entity"
	mulPilotTag    = "pilot"
	mulLocationTag = "location"
	mulSlotTag     = "slot"
	mulGameTag     = "game"
	mulIndexAttr   = "index"
	mulShotsAttr   = "shots"
	mulIDAttr      = "id"
)

// xmlNode is a generic element tree for encoding/xml
type xmlNode struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Text    string     `xml:",chardata"`
	Nodes   []xmlNode  `xml:",any"`
}

func (n *xmlNode) is(tag string) bool {
	return strings.EqualFold(n.XMLName.Local, tag)
}

func (n *xmlNode) attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func (n *xmlNode) attributes() *models.Record {
	rec := models.NewRecord(models.FormatMUL)
	for _, a := range n.Attrs {
		rec.Set(a.Name.Local, a.Value)
	}
	return rec
}

// ParseMUL decodes a force (.mul) document. Entities are indexed by the id
// of their required <game> child.
func ParseMUL(text string) (*models.Scenario, error) {
	var root xmlNode
	if err := xml.Unmarshal([]byte(text), &root); err != nil {
		return nil, malformed(models.FormatMUL, 0, "xml", err)
	}

	scenario := models.NewScenario(root.attributes())
	for i := range root.Nodes {
		child := &root.Nodes[i]
		if !child.is(mulEntityTag) {
			continue
		}
		entity, err := collectEntity(child)
		if err != nil {
			return nil, err
		}
		if !scenario.AddEntity(entity) {
			return nil, &ParseError{
				Format: models.FormatMUL,
				Field:  entity.ID,
				Kind:   ErrMalformedSyntax,
				Detail: "duplicate entity game id",
			}
		}
	}
	return scenario, nil
}

// ParseMULFile reads and decodes a .mul file
func ParseMULFile(path string) (*models.Scenario, error) {
	text, err := readFile(models.FormatMUL, path)
	if err != nil {
		return nil, err
	}
	return ParseMUL(text)
}

func collectEntity(node *xmlNode) (*models.Entity, error) {
	entity := &models.Entity{
		Attributes: node.attributes(),
		Locations:  make(map[int]*models.Location),
	}
	var hasGame bool

	for i := range node.Nodes {
		child := &node.Nodes[i]
		switch {
		case child.is(mulPilotTag):
			entity.Pilot = child.attributes()
		case child.is(mulLocationTag):
			loc, err := collectLocation(child)
			if err != nil {
				return nil, err
			}
			entity.Locations[loc.Index] = loc
		case child.is(mulGameTag):
			id, ok := child.attr(mulIDAttr)
			if !ok {
				return nil, missingField(models.FormatMUL, mulGameTag+"."+mulIDAttr, entityLabel(entity))
			}
			entity.ID = id
			hasGame = true
		}
	}

	if !hasGame {
		return nil, missingField(models.FormatMUL, mulGameTag, entityLabel(entity))
	}
	return entity, nil
}

func collectLocation(node *xmlNode) (*models.Location, error) {
	idx, err := intAttr(node, mulLocationTag, mulIndexAttr)
	if err != nil {
		return nil, err
	}
	loc := &models.Location{
		Index:      idx,
		Name:       strings.TrimSpace(node.Text),
		Attributes: node.attributes(),
		Slots:      make(map[int]*models.Slot),
	}

	for i := range node.Nodes {
		child := &node.Nodes[i]
		if !child.is(mulSlotTag) {
			continue
		}
		slotIdx, err := intAttr(child, mulSlotTag, mulIndexAttr)
		if err != nil {
			return nil, err
		}
		shots, err := intAttr(child, mulSlotTag, mulShotsAttr)
		if err != nil {
			return nil, err
		}
		loc.Slots[slotIdx] = &models.Slot{
			Index:      slotIdx,
			Shots:      shots,
			Attributes: child.attributes(),
		}
	}
	return loc, nil
}

func intAttr(node *xmlNode, tag, name string) (int, error) {
	raw, ok := node.attr(name)
	if !ok {
		return 0, missingField(models.FormatMUL, tag+"."+name, "")
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &ParseError{
			Format: models.FormatMUL,
			Field:  tag + "." + name,
			Kind:   ErrTypeCoercion,
			Detail: fmt.Sprintf("%q is not an integer", raw),
		}
	}
	return v, nil
}

func entityLabel(e *models.Entity) string {
	if name := e.Name(); name != "" {
		return "entity " + name
	}
	return "entity"
}
