package terms

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Structured conditions attached to agreements are written as a flat
// clause document, one clause per line (a trailing semicolon is allowed):
//
//	price: 100
//	duration: 10
//	currency: "wei"   # comment
//
// A clause value is a quoted string, a number, or a bare word.

// Lexer for conditions documents. Rules are specified with regexp.
var TermsLexer = lexer.MustSimple([]lexer.Rule{
	{Name: `Ident`, Pattern: `[a-zA-Z][a-zA-Z0-9_]*`},
	{Name: `String`, Pattern: `"(.*?)"`},
	{Name: `Float`, Pattern: `\d+(?:\.\d+)?`},
	{Name: "comment", Pattern: `#[^\n]*`},
	{Name: "Punct", Pattern: `[:;]`},
	{Name: "whitespace", Pattern: `\s+`},
})

type Doc struct {
	Clauses []*Clause `parser:"@@*"`
}

type Clause struct {
	Key   string `parser:"@Ident \":\""`
	Value Value  `parser:"@@ \";\"?"`
}

type Value struct {
	String *string  `parser:"@String"`
	Number *float64 `parser:"| @Float"`
	Word   *string  `parser:"| @Ident"`
}

func (v Value) Text() string {
	switch {
	case v.String != nil:
		return *v.String
	case v.Number != nil:
		return strconv.FormatFloat(*v.Number, 'f', -1, 64)
	case v.Word != nil:
		return *v.Word
	default:
		return ""
	}
}

var TermsParser = participle.MustBuild(&Doc{},
	participle.Lexer(TermsLexer),
	participle.Unquote("String"),
)

// Parse turns a conditions document into its clause list.
func Parse(text string) (Doc, error) {
	doc := &Doc{}
	err := TermsParser.ParseString("", text, doc)
	if err != nil {
		return Doc{}, fmt.Errorf("parse conditions: %w", err)
	}
	return *doc, nil
}

// Get returns the value of the last clause with the given key.
func (d Doc) Get(key string) (Value, bool) {
	for i := len(d.Clauses) - 1; i >= 0; i-- {
		if d.Clauses[i].Key == key {
			return d.Clauses[i].Value, true
		}
	}
	return Value{}, false
}

// Render writes the document back out, one clause per line.
func (d Doc) Render() string {
	out := new(strings.Builder)
	for _, c := range d.Clauses {
		out.WriteString(c.Key)
		out.WriteString(": ")
		if c.Value.String != nil {
			out.WriteString(strconv.Quote(*c.Value.String))
		} else {
			out.WriteString(c.Value.Text())
		}
		out.WriteString("\n")
	}
	return out.String()
}

// Number builds a numeric clause.
func Number(key string, n float64) *Clause {
	return &Clause{Key: key, Value: Value{Number: &n}}
}

// Text builds a string clause.
func Text(key string, s string) *Clause {
	return &Clause{Key: key, Value: Value{String: &s}}
}
