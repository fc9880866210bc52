// Package glossary applies deterministic terminology corrections to raw
// machine-translation output before it is cached or persisted. Rules are
// whole-word substitutions keyed by target language; because every
// pattern matches the pre-substitution word form only, applying a
// glossary twice is a no-op.
package glossary

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Rule is one ordered substitution for a target language.
type Rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Glossary holds the ordered rule lists per target language. Immutable
// after construction.
type Glossary struct {
	rules map[string][]Rule
}

type fileEntry struct {
	Match       string `yaml:"match"`
	Replacement string `yaml:"replacement"`
}

// defaultRules fixes the mistranslations the provider is known to
// produce for this application's domain, including Brazilian Portuguese
// forms that must become European Portuguese.
var defaultRules = map[string][][2]string{
	"pt": {
		// Domain terminology.
		{"Quotes", "Orçamentos"},
		{"Quote", "Orçamento"},
		{"Cotações", "Orçamentos"},
		{"Cotação", "Orçamento"},
		// Brazilian -> European Portuguese.
		{"Salvar", "Guardar"},
		{"Deletar", "Eliminar"},
		{"Gerenciamento", "Gestão"},
		{"gerenciamento", "gestão"},
		{"Aplicativo", "Aplicação"},
		{"aplicativo", "aplicação"},
		{"Cadastrar", "Registar"},
		{"cadastrar", "registar"},
		{"Usuários", "Utilizadores"},
		{"usuários", "utilizadores"},
		{"Usuário", "Utilizador"},
		{"usuário", "utilizador"},
		{"Aluguel", "Aluguer"},
		{"aluguel", "aluguer"},
		{"Locação", "Aluguer"},
		{"locação", "aluguer"},
		{"Baixar", "Transferir"},
		{"baixar", "transferir"},
	},
}

// NewDefault builds the glossary from the built-in rules.
func NewDefault() *Glossary {
	g := &Glossary{rules: make(map[string][]Rule)}
	for lang, pairs := range defaultRules {
		for _, p := range pairs {
			g.rules[lang] = append(g.rules[lang], compileRule(p[0], p[1]))
		}
	}
	return g
}

// Load builds the glossary from the built-in rules plus a YAML file of
// per-language entries, appended after the defaults:
//
//	pt:
//	  - match: "Quote"
//	    replacement: "Orçamento"
func Load(path string) (*Glossary, error) {
	g := NewDefault()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read glossary: %w", err)
	}
	var entries map[string][]fileEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse glossary: %w", err)
	}
	for lang, list := range entries {
		for _, e := range list {
			if e.Match == "" {
				continue
			}
			g.rules[lang] = append(g.rules[lang], compileRule(e.Match, e.Replacement))
		}
	}
	return g, nil
}

// Apply rewrites known mistranslations in text for the given target
// language. Unknown languages pass through untouched.
func (g *Glossary) Apply(text, lang string) string {
	rules, ok := g.rules[lang]
	if !ok {
		return text
	}
	out := text
	for _, r := range rules {
		out = r.pattern.ReplaceAllString(out, r.replacement)
	}
	return out
}

// RuleCount reports how many rules are loaded for a language.
func (g *Glossary) RuleCount(lang string) int {
	return len(g.rules[lang])
}

func compileRule(match, replacement string) Rule {
	return Rule{
		pattern:     regexp.MustCompile(`\b` + regexp.QuoteMeta(match) + `\b`),
		replacement: replacement,
	}
}
