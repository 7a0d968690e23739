package i18n

import "strings"

// Translator retrieves localized messages for error codes. data fills the
// {placeholders} embedded in the message (for example "owner" or "field").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"required.title":     "Required error",
		"required":           "`{owner}#{field}: {type}` is empty",
		"required.hint":      "if `{field}` is required, supply a value; if it is optional, change its type from `{type}` to `Option[{type}]`",
		"invalid_type.title": "Invalid type error",
		"invalid_type":       "`{owner}#{field} = {value}` doesn't match the expected types {expected}; actual type is `{actual}`",
		"invalid_type.hint":  "set ForceCast to coerce the value, or supply a value of the expected type",
		"unknown_key.title":  "Unknown fields error",
		"unknown_key":        "`{owner}` has unknown fields {fields}",
		"unknown_key.hint":   "set AllowUnknown to drop them, or add {fields} to `{owner}`",
		"parse_error":        "parse error",
		"duplicate_key":      "duplicate key {key}",
		"truncated":          "truncated",
	},
	"ja": {
		"required.title":     "必須エラー",
		"required":           "`{owner}#{field}: {type}` が空です",
		"required.hint":      "`{field}` が必須なら値を指定し、任意なら型を `{type}` から `Option[{type}]` に変更してください",
		"invalid_type.title": "型エラー",
		"invalid_type":       "`{owner}#{field} = {value}` は期待される型 {expected} に一致しません (実際の型は `{actual}`)",
		"invalid_type.hint":  "強制変換するには ForceCast を指定するか、正しい型の値を指定してください",
		"unknown_key.title":  "未知フィールドエラー",
		"unknown_key":        "`{owner}` に未知のフィールド {fields} があります",
		"unknown_key.hint":   "無視するには AllowUnknown を指定するか、{fields} を `{owner}` に追加してください",
		"parse_error":        "解析エラー",
		"duplicate_key":      "キー {key} が重複しています",
		"truncated":          "打ち切られました",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][code]
	if !ok {
		msg, ok = dictionaries["en"][code]
	}
	if !ok {
		return code
	}
	if len(data) == 0 {
		return msg
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
