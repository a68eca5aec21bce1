package arfmt

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// ARLexer tokenizes the textual AR assembly format: one token family
// per the teacher grammar package's idiom (Ident/Integer/Operator/
// Punctuation/Whitespace), generalized to this format's vocabulary
// instead of a source language's.
var ARLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `;[^\n]*`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Integer", `0x[0-9a-fA-F]+|[0-9]+`, nil},
		{"Arrow", `->`, nil},
		{"Punctuation", `[{}()\[\]:,@*.\-=]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
