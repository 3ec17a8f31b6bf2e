// Package testing provides test utilities for normalize.
package testing

import (
	"strconv"

	"github.com/zoobzio/normalize"
)

// SimpleUser is a flat DTO with no special handling.
type SimpleUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   int    `json:"age"`
}

// Account is a DTO carrying a sensitive field for masking tests.
type Account struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// ResultList implements normalize.ItemList over pre-serialized rows.
type ResultList struct {
	Rows []map[string]any
}

// Data returns the rows verbatim.
func (l ResultList) Data() []map[string]any { return l.Rows }

// PageInfo implements normalize.Paginator.
type PageInfo struct {
	Current int
	Pages   int
	Items   int
	PerPage int
}

func (p PageInfo) Page() int         { return p.Current }
func (p PageInfo) PageCount() int    { return p.Pages }
func (p PageInfo) ItemCount() int    { return p.Items }
func (p PageInfo) ItemsPerPage() int { return p.PerPage }

// StaticTranslation implements normalize.Translation with a fixed string.
type StaticTranslation string

// Translate returns the string itself.
func (t StaticTranslation) Translate() string { return string(t) }

// FixedPrice implements normalize.Price.
type FixedPrice struct {
	Amount float64
	Code   string
}

func (p FixedPrice) Value() float64   { return p.Amount }
func (p FixedPrice) Currency() string { return p.Code }
func (p FixedPrice) HTML() string {
	return strconv.FormatFloat(p.Amount, 'f', 2, 64) + "&nbsp;" + p.Code
}
func (p FixedPrice) IsFree() bool { return p.Amount == 0 }

// CollectingSink returns a security sink appending messages to dst.
func CollectingSink(dst *[]string) normalize.SecuritySink {
	return func(msg string) {
		*dst = append(*dst, msg)
	}
}
