package classifier

import (
	"regexp"
	"strings"
)

// Content detectors ported from the application's translation rules.
// All patterns run against the trimmed string; the detectors are ordered
// by their callers, not here.

var (
	emailRe       = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneShapeRe  = regexp.MustCompile(`^\+?[1-9]?[\d\s\-()]{7,15}$`)
	phoneDigitsRe = regexp.MustCompile(`\d{3,}`)
	properNameRe  = regexp.MustCompile(`^[A-Z][a-z]+(?: [A-Z][a-z]+){1,2}$`)
	addressRe     = regexp.MustCompile(`(?i)^\d+\s+[A-Za-z\s]+(?:Street|St|Avenue|Ave|Road|Rd|Drive|Dr|Lane|Ln)`)

	legalSuffixRe = regexp.MustCompile(`(?i)(Ltd|LLC|Inc|Corp|Corporation|Company|Co\.|GmbH|S\.A\.|Lda|Ltda)\.?$`)
	skuShapeRe    = regexp.MustCompile(`^[A-Z0-9\-_]{3,20}$`)
	hasUpperRe    = regexp.MustCompile(`[A-Z]`)
	hasDigitRe    = regexp.MustCompile(`\d`)
	currencyPreRe = regexp.MustCompile(`[$£€¥]\s*\d+(?:[,.]\d{2,3})*(?:\.\d{2})?`)
	currencyPosRe = regexp.MustCompile(`\d+(?:[,.]\d{2,3})*(?:\.\d{2})?\s*[$£€¥]`)
	brandModelRe  = regexp.MustCompile(`^[A-Z][a-z]+\s+[A-Z0-9\-]+$`)

	serialRe    = regexp.MustCompile(`^[A-Z]{2,}\d{4,}$`)
	snPrefixRe  = regexp.MustCompile(`(?i)^SN[\d\-A-Z]{4,}$`)
	uuidRe      = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	referenceRe = regexp.MustCompile(`(?i)^(INV|REF|ORD|QUO)[-#]?\d+$`)
	idNumberRe  = regexp.MustCompile(`(?i)^(ID|NO|NUM)[:\-\s]?\d+$`)

	isoDateRe     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	slashDateRe   = regexp.MustCompile(`^\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}$`)
	clockTimeRe   = regexp.MustCompile(`^\d{1,2}:\d{2}(?::\d{2})?(?:\s?[AaPp][Mm])?$`)
	shortPhrase   = regexp.MustCompile(`^[A-Z][a-z\s]+[.!?]?$`)
	headerShape   = regexp.MustCompile(`^[A-Z][a-z\s]*$`)
	instructional = regexp.MustCompile(`^(Please|Enter|Select|Choose|This field|Invalid|Required)`)
)

// uiVocabulary is the fixed set of verbs and status words that always
// count as interface text when matched exactly (case-insensitive).
var uiVocabulary = map[string]struct{}{}

func init() {
	words := []string{
		"save", "cancel", "delete", "edit", "add", "create", "update", "submit",
		"login", "logout", "register", "search", "filter", "sort", "export",
		"import", "download", "upload", "print", "refresh", "back", "next",
		"previous", "continue", "finish", "close", "open", "view", "details",
		"active", "inactive", "pending", "completed", "cancelled", "draft",
		"approved", "rejected", "available", "unavailable", "loading", "error",
	}
	for _, w := range words {
		uiVocabulary[w] = struct{}{}
	}
}

// IsPersonalData reports whether text looks like a person's data: an
// email address, a phone number, a "Firstname Lastname" name, or a
// street address.
func IsPersonalData(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	if emailRe.MatchString(trimmed) {
		return true
	}
	if phoneShapeRe.MatchString(trimmed) && phoneDigitsRe.MatchString(trimmed) {
		return true
	}
	if properNameRe.MatchString(trimmed) {
		return true
	}
	if addressRe.MatchString(trimmed) {
		return true
	}
	return false
}

// IsBusinessData reports whether text looks like business data: a legal
// entity name, a SKU-shaped code, a currency amount, or a brand name
// with a model number.
func IsBusinessData(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	if legalSuffixRe.MatchString(trimmed) {
		return true
	}
	if skuShapeRe.MatchString(trimmed) && hasUpperRe.MatchString(trimmed) && hasDigitRe.MatchString(trimmed) {
		return true
	}
	if currencyPreRe.MatchString(trimmed) || currencyPosRe.MatchString(trimmed) {
		return true
	}
	if brandModelRe.MatchString(trimmed) {
		return true
	}
	return false
}

// IsSystemIdentifier reports whether text looks like a machine-issued
// identifier: a serial number, a UUID, or a prefixed reference number.
func IsSystemIdentifier(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	if serialRe.MatchString(trimmed) || snPrefixRe.MatchString(trimmed) {
		return true
	}
	if uuidRe.MatchString(trimmed) {
		return true
	}
	if referenceRe.MatchString(trimmed) {
		return true
	}
	if idNumberRe.MatchString(trimmed) {
		return true
	}
	return false
}

// IsDateOrTime reports whether text is a date or clock time in any of
// the formats the application renders.
func IsDateOrTime(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	return isoDateRe.MatchString(trimmed) ||
		slashDateRe.MatchString(trimmed) ||
		clockTimeRe.MatchString(trimmed)
}

// IsUIText reports positive evidence that text is interface copy: an
// exact vocabulary hit, a short capitalized phrase, or an instructional
// message prefix.
func IsUIText(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	if _, ok := uiVocabulary[strings.ToLower(trimmed)]; ok {
		return true
	}
	if len(text) < 50 && shortPhrase.MatchString(text) && !IsPersonalData(text) {
		return true
	}
	if instructional.MatchString(trimmed) {
		return true
	}
	return false
}

// headerVocabulary covers column names that recur across the
// application's tables.
var headerVocabulary = []string{
	"name", "date", "status", "type", "category", "price", "quantity",
	"total", "actions", "description", "created", "updated", "id", "number",
}

// isHeaderLike reports whether table-cell text reads like a column
// header rather than row data.
func isHeaderLike(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 30 && headerShape.MatchString(trimmed) {
		return true
	}
	lower := strings.ToLower(trimmed)
	for _, word := range headerVocabulary {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}
