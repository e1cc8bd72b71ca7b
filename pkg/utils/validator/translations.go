package validator

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

func (v *Validator) registerCustomTranslations() {
	v.registerAll(LangEN, map[string]string{
		TagIndexName:    "{0} must start with a letter and contain only letters, digits, '_' or '-' (at most 64 characters)",
		TagExtension:    "{0} must be a lowercase file extension with a leading dot",
		TagBaseName:     "{0} must be a file name without directory parts",
		TagNoWhitespace: "{0} must not contain whitespace characters",
		TagTrimmed:      "{0} must not have leading or trailing spaces",
	})
	v.registerAll(LangZH, map[string]string{
		TagIndexName:    "{0}必须以字母开头，只能包含字母、数字、下划线或连字符（最多64个字符）",
		TagExtension:    "{0}必须是以点开头的小写文件扩展名",
		TagBaseName:     "{0}必须是不含目录的文件名",
		TagNoWhitespace: "{0}不能包含空白字符",
		TagTrimmed:      "{0}不能有前导或尾随空格",
	})
}

func (v *Validator) registerAll(lang string, translations map[string]string) {
	trans := v.GetTranslator(lang)
	if trans == nil {
		return
	}
	for tag, message := range translations {
		registerTranslation(v.validate, trans, tag, message)
	}
}

func registerTranslation(validate *validator.Validate, trans ut.Translator, tag, message string) {
	_ = validate.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, message, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, fe.Field())
			return t
		},
	)
}

// RegisterTranslation registers or overrides the message for a tag.
func (v *Validator) RegisterTranslation(lang, tag, message string) {
	v.registerAll(lang, map[string]string{tag: message})
}
