package store

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/khartley/linchpin/internal/item"
)

// ImportResult summarizes one import run.
type ImportResult struct {
	Imported int
	Skipped  int
}

// ImportJSON loads items from a JSON export into the store. Exports
// come from the browser tool's IndexedDB dump and are frequently
// hand-edited, so parsing is deliberately tolerant: the payload may be
// a bare array of items or an object with an "items" array, dependency
// lists may appear as "dependsOn" or "depends_on", unknown fields are
// ignored, and records without an id are skipped rather than failing
// the whole import.
func ImportJSON(s *Store, data []byte) (ImportResult, error) {
	if !gjson.ValidBytes(data) {
		return ImportResult{}, fmt.Errorf("import: not valid JSON")
	}

	root := gjson.ParseBytes(data)
	list := root
	if root.IsObject() {
		list = root.Get("items")
	}
	if !list.IsArray() {
		return ImportResult{}, fmt.Errorf("import: expected an item array or an object with an \"items\" array")
	}

	var res ImportResult
	var firstErr error
	list.ForEach(func(_, rec gjson.Result) bool {
		id := rec.Get("id").String()
		if id == "" {
			res.Skipped++
			return true
		}

		it := item.Item{
			ID:     id,
			Title:  rec.Get("title").String(),
			Kind:   item.Kind(rec.Get("kind").String()),
			Status: rec.Get("status").String(),
		}
		if !item.ValidKind(it.Kind) {
			it.Kind = item.KindNote
		}
		if it.Status == "" {
			it.Status = item.StatusPending
		}

		deps := rec.Get("dependsOn")
		if !deps.Exists() {
			deps = rec.Get("depends_on")
		}
		for _, d := range deps.Array() {
			if dep := d.String(); dep != "" && dep != id {
				it.DependsOn = append(it.DependsOn, dep)
			}
		}

		if err := s.Put(it); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			res.Skipped++
			return true
		}
		res.Imported++
		return true
	})
	return res, firstErr
}
