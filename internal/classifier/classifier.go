// Package classifier decides whether a UI string should be sent to the
// translation pipeline at all. It combines structural rules about the
// element a string came from with content heuristics that keep personal,
// business and system data out of the machine translator.
package classifier

// Action is the outcome of rule evaluation for a piece of text.
type Action int

const (
	// ActionAnalyze defers the decision to content analysis.
	ActionAnalyze Action = iota
	// ActionSkip short-circuits to "do not translate".
	ActionSkip
	// ActionTranslate short-circuits to "translate".
	ActionTranslate
)

// Element identifies the kind of UI element a string was rendered in.
type Element string

const (
	ElementUnknown     Element = ""
	ElementButton      Element = "button"
	ElementLabel       Element = "label"
	ElementPlaceholder Element = "placeholder"
	ElementHeading     Element = "heading"
	ElementNav         Element = "nav"
	ElementBadge       Element = "badge"
	ElementAlert       Element = "alert"
	ElementHelpText    Element = "help"
	ElementTableHeader Element = "th"
	ElementTableCell   Element = "td"
	ElementOption      Element = "option"
	ElementListItem    Element = "li"
	ElementDescription Element = "description"
	ElementInput       Element = "input"
	ElementTextarea    Element = "textarea"
	ElementCode        Element = "code"
)

// ElementContext describes where a string came from. The zero value is
// an unknown element with no markers, which falls through to content
// analysis.
type ElementContext struct {
	Element Element

	// Explicit markers set by the rendering layer.
	NoTranslate    bool // data-no-translate
	ForceTranslate bool // data-translate="true"

	// Surrounding-area markers.
	UserContent   bool // user-generated content area
	PersonalInfo  bool // personal information field
	ClientData    bool // client/customer data field
	FinancialData bool // price or amount field
	TechnicalData bool // raw technical content
}

// maxTranslatableLen caps how long a string may be before it is assumed
// to be free-form content rather than UI text.
const maxTranslatableLen = 500

type structuralRule struct {
	match  func(ElementContext) bool
	action Action
	reason string
}

// Structural rules in precedence order: skip rules first, then
// translate rules, then analyze rules. The first match wins.
var structuralRules = []structuralRule{
	// Never translate: explicit exclusions and user/business data.
	{func(c ElementContext) bool { return c.NoTranslate }, ActionSkip, "explicitly excluded"},
	{func(c ElementContext) bool { return c.UserContent }, ActionSkip, "user-generated content"},
	{func(c ElementContext) bool { return c.PersonalInfo }, ActionSkip, "personal information"},
	{func(c ElementContext) bool { return c.ClientData }, ActionSkip, "client data"},
	{func(c ElementContext) bool { return c.FinancialData }, ActionSkip, "financial amounts"},
	{func(c ElementContext) bool { return c.TechnicalData }, ActionSkip, "technical content"},
	{func(c ElementContext) bool { return c.Element == ElementInput }, ActionSkip, "user input value"},
	{func(c ElementContext) bool { return c.Element == ElementTextarea }, ActionSkip, "user text content"},
	{func(c ElementContext) bool { return c.Element == ElementCode }, ActionSkip, "code content"},

	// Explicit inclusion.
	{func(c ElementContext) bool { return c.ForceTranslate }, ActionTranslate, "explicitly included"},

	// Usually translate: chrome the application itself renders.
	{func(c ElementContext) bool { return c.Element == ElementButton }, ActionTranslate, "UI buttons"},
	{func(c ElementContext) bool { return c.Element == ElementLabel }, ActionTranslate, "form labels"},
	{func(c ElementContext) bool { return c.Element == ElementPlaceholder }, ActionTranslate, "form placeholders"},
	{func(c ElementContext) bool { return c.Element == ElementHeading }, ActionTranslate, "page headings"},
	{func(c ElementContext) bool { return c.Element == ElementNav }, ActionTranslate, "navigation elements"},
	{func(c ElementContext) bool { return c.Element == ElementBadge }, ActionTranslate, "status indicators"},
	{func(c ElementContext) bool { return c.Element == ElementAlert }, ActionTranslate, "system messages"},
	{func(c ElementContext) bool { return c.Element == ElementHelpText }, ActionTranslate, "help content"},
	{func(c ElementContext) bool { return c.Element == ElementTableHeader }, ActionTranslate, "table headers"},

	// Needs content analysis: may be user data or UI text.
	{func(c ElementContext) bool { return c.Element == ElementTableCell }, ActionAnalyze, "table data"},
	{func(c ElementContext) bool { return c.Element == ElementOption }, ActionAnalyze, "dropdown options"},
	{func(c ElementContext) bool { return c.Element == ElementListItem }, ActionAnalyze, "list items"},
	{func(c ElementContext) bool { return c.Element == ElementDescription }, ActionAnalyze, "descriptions"},
}

// Classify evaluates the structural rules for the element a string came
// from. ActionAnalyze means no rule was decisive and the content
// detectors should run.
func Classify(text string, elCtx ElementContext) Action {
	for _, rule := range structuralRules {
		if rule.match(elCtx) {
			return rule.action
		}
	}
	return ActionAnalyze
}

// ShouldTranslate reports whether the given text, in the given element
// context, should be submitted for machine translation.
//
// Precedence is fixed: structural skip > structural translate > content
// analysis > default deny. Ambiguous text is never translated without
// positive evidence.
func ShouldTranslate(text string, elCtx ElementContext) bool {
	if isBlank(text) || len(text) > maxTranslatableLen {
		return false
	}

	analyzeAsTableCell := false
	switch Classify(text, elCtx) {
	case ActionSkip:
		return false
	case ActionTranslate:
		return true
	case ActionAnalyze:
		analyzeAsTableCell = elCtx.Element == ElementTableCell
	}

	// Negative detectors, fixed order. Any hit means the text looks like
	// data rather than interface copy.
	if IsPersonalData(text) {
		return false
	}
	if IsBusinessData(text) {
		return false
	}
	if IsSystemIdentifier(text) {
		return false
	}
	if IsDateOrTime(text) {
		return false
	}

	// Table cells hold user data far more often than UI text, so they
	// only pass when the content is header-like.
	if analyzeAsTableCell {
		return isHeaderLike(text)
	}

	if IsUIText(text) {
		return true
	}

	return false
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
