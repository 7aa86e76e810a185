package cart

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/noah-isme/frozen-toko/internal/catalog"
)

const (
	defaultVariation = "default"
	noAddOns         = "none"
)

// AddOnSelection is a distinct add-on chosen Quantity times for one unit of a line.
type AddOnSelection struct {
	catalog.AddOn
	Quantity int `json:"quantity"`
}

// Key is the identity of a cart line. Two add-to-cart requests with equal keys refer
// to the same line.
type Key struct {
	ItemID      string
	VariationID string
	AddOns      string
}

// String encodes the key as itemID|variationID|addOnID:qty,... with the variation
// falling back to "default" and the add-on part to "none".
func (k Key) String() string {
	return k.ItemID + "|" + k.VariationID + "|" + k.AddOns
}

// CanonicalAddOns groups repeated add-on picks by id, summing them into a quantity,
// and orders the result by id so selection order never matters.
func CanonicalAddOns(picks []catalog.AddOn) []AddOnSelection {
	if len(picks) == 0 {
		return nil
	}
	index := make(map[string]int, len(picks))
	out := make([]AddOnSelection, 0, len(picks))
	for _, a := range picks {
		if i, ok := index[a.ID]; ok {
			out[i].Quantity++
			continue
		}
		index[a.ID] = len(out)
		out = append(out, AddOnSelection{AddOn: a, Quantity: 1})
	}
	sortSelections(out)
	return out
}

// NewKey builds the identity key for an item, optional variation and add-on multiset.
// selections need not be sorted.
func NewKey(itemID string, variation *catalog.Variation, selections []AddOnSelection) Key {
	k := Key{ItemID: escape(itemID), VariationID: defaultVariation, AddOns: noAddOns}
	if variation != nil {
		k.VariationID = escape(variation.ID)
	}
	if enc := encodeAddOns(selections); enc != "" {
		k.AddOns = enc
	}
	return k
}

func encodeAddOns(selections []AddOnSelection) string {
	if len(selections) == 0 {
		return ""
	}
	sorted := make([]AddOnSelection, len(selections))
	copy(sorted, selections)
	sortSelections(sorted)
	parts := make([]string, 0, len(sorted))
	for _, s := range sorted {
		if s.Quantity <= 0 {
			continue
		}
		parts = append(parts, escape(s.ID)+":"+strconv.Itoa(s.Quantity))
	}
	return strings.Join(parts, ",")
}

func sortSelections(s []AddOnSelection) {
	sort.SliceStable(s, func(i, j int) bool { return s[i].ID < s[j].ID })
}

// escape keeps the separators unambiguous for ids that contain them.
func escape(id string) string {
	return url.QueryEscape(id)
}
