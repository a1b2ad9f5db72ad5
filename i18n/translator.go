// Package i18n localizes evaluation failure messages by Issue code, kept
// from goskema's i18n/translator.go dictionary-Translator pattern with the
// dictionary retargeted from struct-validation codes to the keyword-vocabulary
// codes this module's errors.go defines.
package i18n

// Translator retrieves localized messages for Issue codes. data provides
// optional metadata to embed in the message (for example, "expected" or
// "limit").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "type":
			return "型が不正です"
		case "required":
			return "必須プロパティが不足しています"
		case "properties":
			return "プロパティがサブスキーマに一致しません"
		case "pattern_properties":
			return "patternPropertiesの一致が条件を満たしません"
		case "property_names":
			return "プロパティ名がpropertyNamesに一致しません"
		case "additional_properties":
			return "許可されていないプロパティです"
		case "duplicate_key":
			return "キーが重複しています"
		case "minimum":
			return "最小値を下回っています"
		case "maximum":
			return "最大値を超えています"
		case "multiple_of":
			return "倍数条件を満たしていません"
		case "min_length":
			return "文字数が少なすぎます"
		case "max_length":
			return "文字数が多すぎます"
		case "pattern":
			return "パターンに一致しません"
		case "min_items":
			return "要素数が少なすぎます"
		case "max_items":
			return "要素数が多すぎます"
		case "unique_items":
			return "重複する要素があります"
		case "enum":
			return "許可された値のいずれにも一致しません"
		case "const":
			return "定数値と一致しません"
		case "format":
			return "フォーマットが不正です"
		case "ref":
			return "参照の解決に失敗しました"
		case "unresolved_reference":
			return "参照を解決できません"
		case "unevaluated_properties":
			return "評価されていないプロパティです"
		case "unevaluated_items":
			return "評価されていない要素です"
		case "exclusive_minimum":
			return "最小値以下です"
		case "exclusive_maximum":
			return "最大値以上です"
		case "min_contains":
			return "containsを満たす要素が少なすぎます"
		case "max_contains":
			return "containsを満たす要素が多すぎます"
		case "contains":
			return "containsを満たす要素がありません"
		case "min_properties":
			return "プロパティ数が少なすぎます"
		case "max_properties":
			return "プロパティ数が多すぎます"
		case "dependent_required":
			return "依存する必須プロパティが不足しています"
		case "all_of":
			return "allOfの条件を満たしていません"
		case "any_of":
			return "anyOfのいずれの条件も満たしていません"
		case "one_of":
			return "oneOfの条件をちょうど一つ満たしていません"
		case "not":
			return "notの条件に違反しています"
		case "dynamic_ref":
			return "動的参照の解決に失敗しました"
		case "content_encoding":
			return "contentEncodingを満たしていません"
		case "content_media_type":
			return "contentMediaTypeを満たしていません"
		case "content_schema":
			return "contentSchemaを満たしていません"
		}
	default: // "en"
		switch code {
		case "type":
			return "value does not match the expected type"
		case "required":
			return "required property missing"
		case "properties":
			return "one or more properties did not match their subschema"
		case "pattern_properties":
			return "one or more patternProperties matches did not hold"
		case "property_names":
			return "one or more property names did not match propertyNames"
		case "additional_properties":
			return "additional property not allowed"
		case "duplicate_key":
			return "duplicate key"
		case "minimum":
			return "value is below the minimum"
		case "maximum":
			return "value exceeds the maximum"
		case "multiple_of":
			return "value is not a multiple of the given number"
		case "min_length":
			return "string is too short"
		case "max_length":
			return "string is too long"
		case "pattern":
			return "string does not match the pattern"
		case "min_items":
			return "array has too few items"
		case "max_items":
			return "array has too many items"
		case "unique_items":
			return "array items are not unique"
		case "enum":
			return "value is not one of the allowed values"
		case "const":
			return "value does not match the constant"
		case "format":
			return "value does not satisfy the format"
		case "ref":
			return "reference could not be resolved"
		case "unresolved_reference":
			return "reference could not be resolved"
		case "unevaluated_properties":
			return "property was not successfully evaluated by any applicator"
		case "unevaluated_items":
			return "item was not successfully evaluated by any applicator"
		case "exclusive_minimum":
			return "value is not strictly greater than the minimum"
		case "exclusive_maximum":
			return "value is not strictly less than the maximum"
		case "min_contains":
			return "too few array items match contains"
		case "max_contains":
			return "too many array items match contains"
		case "contains":
			return "no array item matches contains"
		case "min_properties":
			return "object has too few properties"
		case "max_properties":
			return "object has too many properties"
		case "dependent_required":
			return "a property this object has requires other properties that are missing"
		case "all_of":
			return "instance does not satisfy all of the subschemas"
		case "any_of":
			return "instance does not satisfy any of the subschemas"
		case "one_of":
			return "instance does not satisfy exactly one of the subschemas"
		case "not":
			return "instance must not satisfy the subschema"
		case "dynamic_ref":
			return "dynamic reference could not be resolved"
		case "content_encoding":
			return "value does not satisfy the content encoding"
		case "content_media_type":
			return "value does not satisfy the content media type"
		case "content_schema":
			return "decoded content does not satisfy the content schema"
		}
	}
	return code
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
