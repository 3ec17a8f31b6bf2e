package normalize

import (
	"fmt"
	"strconv"
)

// Mandated placement keys for bridge adapters. A value satisfying ItemList
// or Paginator may only appear at the top level or under its mandated key;
// any other placement fails with ErrMisplacedBridgeValue.
const (
	KeyItems     = "items"
	KeyPaginator = "paginator"
)

// dispatchBridge hands a value to the first matching bridge adapter.
// The capability set is fixed and checked in priority order; a value that
// satisfies none falls through to structural classification (matched is
// false). Adapter results are already canonical and are not re-traversed.
func dispatchBridge(v any, sl slot, depth int) (out any, matched bool, err error) {
	switch b := v.(type) {
	case ItemList:
		if !sl.allows(KeyItems) {
			return nil, true, newMisplacedError(fmt.Sprintf("%T", v), sl.key, depth)
		}
		return serializeItemList(b), true, nil
	case StatusCounter:
		return serializeStatusCounter(b), true, nil
	case Paginator:
		if !sl.allows(KeyPaginator) {
			return nil, true, newMisplacedError(fmt.Sprintf("%T", v), sl.key, depth)
		}
		return serializePaginator(b), true, nil
	case Translation:
		return b.Translate(), true, nil
	case Price:
		return serializePrice(b), true, nil
	}
	return nil, false, nil
}

// serializeItemList returns the list's data verbatim. The caller is
// responsible for having pre-serialized each element.
func serializeItemList(l ItemList) any {
	return l.Data()
}

func serializeStatusCounter(c StatusCounter) *Map {
	return MapOf(
		Field{"key", c.Key()},
		Field{"label", c.Label()},
		Field{"count", c.Count()},
	)
}

func serializePaginator(p Paginator) *Map {
	page := p.Page()
	pageCount := p.PageCount()
	return MapOf(
		Field{"page", page},
		Field{"pageCount", pageCount},
		Field{"itemCount", p.ItemCount()},
		Field{"itemsPerPage", p.ItemsPerPage()},
		Field{"firstPage", 1},
		Field{"lastPage", pageCount},
		Field{"isFirstPage", page == 1},
		Field{"isLastPage", page == pageCount},
	)
}

func serializePrice(p Price) *Map {
	return MapOf(
		Field{"value", strconv.FormatFloat(p.Value(), 'f', 2, 64)},
		Field{"currency", p.Currency()},
		Field{"html", p.HTML()},
		Field{"isFree", p.IsFree()},
	)
}
