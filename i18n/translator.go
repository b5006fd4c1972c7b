package i18n

import (
	"strings"
	"sync/atomic"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "got").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	var msg string
	switch t.lang {
	case "ja":
		switch code {
		case "missing_field":
			msg = "必須フィールドがありません"
		case "malformed_value":
			msg = "値の形式が不正です"
		case "type_mismatch":
			msg = "型が一致しません"
		case "unexpected_envelope":
			msg = "想定したラッパーキーがありません"
		case "unknown_alias":
			msg = "未知の列挙値です"
		case "parse_error":
			msg = "JSON の解析エラー"
		case "invalid_descriptor":
			msg = "フィールド定義が不正です"
		}
	default: // "en"
		switch code {
		case "missing_field":
			msg = "required field missing"
		case "malformed_value":
			msg = "malformed value"
		case "type_mismatch":
			msg = "type mismatch"
		case "unexpected_envelope":
			msg = "expected wrapper key not found"
		case "unknown_alias":
			msg = "unknown enum value"
		case "parse_error":
			msg = "invalid JSON"
		case "invalid_descriptor":
			msg = "invalid field descriptor"
		}
	}
	if msg == "" {
		return code
	}
	if len(data) == 0 {
		return msg
	}
	var extra []string
	if v, ok := data["expected"]; ok {
		extra = append(extra, "expected "+v)
	}
	if v, ok := data["got"]; ok {
		extra = append(extra, "got "+v)
	}
	if v, ok := data["key"]; ok {
		extra = append(extra, "key "+v)
	}
	if len(extra) == 0 {
		return msg
	}
	return msg + " (" + strings.Join(extra, ", ") + ")"
}

type current struct{ tr Translator }

var _current atomic.Pointer[current]

func init() { _current.Store(&current{tr: dictTranslator{lang: "en"}}) }

// SetLanguage switches the built-in Translator language ("en"/"ja"). Safe to
// call while other goroutines decode.
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	_current.Store(&current{tr: dictTranslator{lang: lang}})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores the English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	_current.Store(&current{tr: tr})
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return _current.Load().tr.Message(code, data) }
