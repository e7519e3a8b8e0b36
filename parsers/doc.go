// Package parsers implements the ingestion pipelines for MegaMek-style unit
// and map files.
//
//   - ParseMTF: block/record format keyed by recognized field names, with
//     implicit multi-line continuation terminated by a blank line.
//   - ParseBLK: commented pseudo-markup whose tag names are normalized by
//     NormalizeTags before it is read as an XML tree of typed leaves.
//   - ParseMUL: XML force files with entities, pilots, locations and slots,
//     indexed by the id of each entity's <game> element.
//   - ParseBoard: line-oriented hex boards decoded into an x-major tile grid;
//     see models.Board.Layers for the per-property projection.
//
// Every pipeline is a pure function of its input and safe for concurrent
// use. Failures are *ParseError values; test the kind with errors.Is:
//
//	if errors.Is(err, parsers.ErrMissingRequiredField) {
//	    // entity without <game id="...">
//	}
package parsers
