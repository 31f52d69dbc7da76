package blocks

import "strings"

// PlainTextLanguage is the fallback code language.
const PlainTextLanguage = "plain text"

var languageAliases = map[string]string{
	"js":   "javascript",
	"jsx":  "javascript",
	"ts":   "typescript",
	"tsx":  "typescript",
	"py":   "python",
	"rb":   "ruby",
	"sh":   "shell",
	"bash": "shell",
	"zsh":  "shell",
	"yml":  "yaml",
	"md":   "markdown",
}

// SupportedLanguages is the closed set of code languages accepted by Notion.
var SupportedLanguages = map[string]bool{
	"abap": true, "arduino": true, "bash": true, "basic": true, "c": true,
	"clojure": true, "coffeescript": true, "c++": true, "c#": true, "css": true,
	"dart": true, "diff": true, "docker": true, "elixir": true, "elm": true,
	"erlang": true, "flow": true, "fortran": true, "f#": true, "gherkin": true,
	"glsl": true, "go": true, "graphql": true, "groovy": true, "haskell": true,
	"html": true, "java": true, "javascript": true, "json": true, "julia": true,
	"kotlin": true, "latex": true, "less": true, "lisp": true, "livescript": true,
	"lua": true, "makefile": true, "markdown": true, "markup": true, "matlab": true,
	"mermaid": true, "nix": true, "objective-c": true, "ocaml": true, "pascal": true,
	"perl": true, "php": true, "plain text": true, "powershell": true, "prolog": true,
	"protobuf": true, "python": true, "r": true, "reason": true, "ruby": true,
	"rust": true, "sass": true, "scala": true, "scheme": true, "scss": true,
	"shell": true, "sql": true, "swift": true, "typescript": true, "vb.net": true,
	"verilog": true, "vhdl": true, "visual basic": true, "webassembly": true,
	"xml": true, "yaml": true, "java/c/c++/c#": true,
}

// NormalizeLanguage maps a free-form code fence language, optionally carrying a
// "language-" class prefix, to a member of SupportedLanguages.
// Unrecognized input yields PlainTextLanguage.
func NormalizeLanguage(lang string) string {
	if lang == "" {
		return PlainTextLanguage
	}
	if SupportedLanguages[lang] {
		return lang
	}
	l := strings.ToLower(strings.TrimSpace(lang))
	l = strings.TrimPrefix(l, "language-")
	if alias, ok := languageAliases[l]; ok {
		return alias
	}
	if SupportedLanguages[l] {
		return l
	}
	return PlainTextLanguage
}
